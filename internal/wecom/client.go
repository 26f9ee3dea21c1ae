// Package wecom sends text messages through a WeCom (enterprise WeChat) application.
package wecom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PratikDhanave/sms-wecom-relay/internal/apperr"
	"github.com/PratikDhanave/sms-wecom-relay/internal/config"
)

const (
	tokenPath = "/cgi-bin/gettoken"
	sendPath  = "/cgi-bin/message/send"
)

// Message is the content relayed for one SMS.
type Message struct {
	Content string
	Code    string
	Device  string
}

// TextPayload is the body of a message/send call.
type TextPayload struct {
	ToUser  string   `json:"touser"`
	MsgType string   `json:"msgtype"`
	AgentID string   `json:"agentid"`
	Text    TextBody `json:"text"`
}

type TextBody struct {
	Content string `json:"content"`
}

type Client struct {
	cfg        config.WeComConfig
	loc        *time.Location
	httpClient *http.Client
	Now        func() time.Time
}

func NewClient(cfg config.WeComConfig, loc *time.Location) *Client {
	if loc == nil {
		loc = time.UTC
	}
	return &Client{
		cfg:        cfg,
		loc:        loc,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		Now:        time.Now,
	}
}

// Send exchanges the corp secret for an access token and posts msg to every member.
//
// A token reply without access_token is not an error: Send returns
// {"error": "Get Token Failed", "detail": <reply>} so the caller can surface it.
// Otherwise the decoded message/send reply is returned as-is.
func (c *Client) Send(ctx context.Context, msg Message) (any, error) {
	if missing := c.missingCredentials(); len(missing) > 0 {
		return nil, apperr.Configuration("wecom configuration missing", map[string]any{"missing": missing})
	}

	token, tokenReply, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return map[string]any{
			"error":  "Get Token Failed",
			"detail": tokenReply,
		}, nil
	}

	payload := TextPayload{
		ToUser:  "@all",
		MsgType: "text",
		AgentID: c.cfg.AgentID,
		Text:    TextBody{Content: FormatText(msg, c.Now().In(c.loc))},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.Upstream(err)
	}

	sendURL := c.cfg.BaseURL + sendPath + "?" + url.Values{"access_token": {token}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Upstream(err)
	}
	req.Header.Set("Content-Type", "application/json")

	var reply any
	if err := c.do(req, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *Client) accessToken(ctx context.Context) (string, map[string]any, error) {
	q := url.Values{
		"corpid":     {c.cfg.CorpID},
		"corpsecret": {c.cfg.Secret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+tokenPath+"?"+q.Encode(), nil)
	if err != nil {
		return "", nil, apperr.Upstream(err)
	}

	var reply map[string]any
	if err := c.do(req, &reply); err != nil {
		return "", nil, err
	}

	token, _ := reply["access_token"].(string)
	return token, reply, nil
}

// do decodes any JSON reply regardless of HTTP status; WeCom reports failures in errcode.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Upstream(scrub(err))
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Upstream(fmt.Errorf("decode %s reply (status %d): %w", req.URL.Path, resp.StatusCode, err))
	}
	return nil
}

func (c *Client) missingCredentials() []string {
	var missing []string
	if c.cfg.CorpID == "" {
		missing = append(missing, "WECOM_CORPID")
	}
	if c.cfg.Secret == "" {
		missing = append(missing, "WECOM_SECRET")
	}
	if c.cfg.AgentID == "" {
		missing = append(missing, "WECOM_AGENTID")
	}
	return missing
}

// scrub drops the request URL from transport errors; it carries the secret or token.
func scrub(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s %s: %w", ue.Op, strings.SplitN(ue.URL, "?", 2)[0], ue.Err)
	}
	return err
}
