package thirdparty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// maxResponseBody 读取响应体的上限
const maxResponseBody = 64 << 10

// Pusher 签名 JSON 推送，5xx 与网络错误按退避重试
type Pusher struct {
	Client  *http.Client
	APIKey  string
	Secret  string
	Retries int
	Backoff []time.Duration

	// OnRetry 每次重试前回调（指标）
	OnRetry func()
}

// NewPusher client 为空时使用 5s 超时的默认客户端
func NewPusher(client *http.Client, apiKey, secret string) *Pusher {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Pusher{
		Client:  client,
		APIKey:  apiKey,
		Secret:  secret,
		Retries: 3,
		Backoff: []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, time.Second, 2 * time.Second},
	}
}

// StatusError 非 2xx 响应
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string { return "webhook returned http " + strconv.Itoa(e.Code) }

// SendJSON 发送 JSON，自动添加签名头；返回最终响应码
func (p *Pusher) SendJSON(ctx context.Context, endpoint string, payload any) (int, error) {
	if p == nil || p.Client == nil {
		return 0, errors.New("nil pusher")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return 0, fmt.Errorf("parse webhook url: %w", err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= p.Retries; attempt++ {
		if attempt > 0 {
			if p.OnRetry != nil {
				p.OnRetry()
			}
			backoff := p.Backoff[min(attempt-1, len(p.Backoff)-1)]
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(backoff):
			}
		}

		code, err := p.post(ctx, u, body)
		if err == nil {
			return code, nil
		}
		lastErr = err
		var se *StatusError
		if errors.As(err, &se) && se.Code < 500 {
			// 4xx 不重试
			return se.Code, err
		}
	}
	var se *StatusError
	if errors.As(lastErr, &se) {
		return se.Code, lastErr
	}
	return 0, lastErr
}

// post 单次请求；每次重试重新签名（时间戳与 nonce 不复用）
func (p *Pusher) post(ctx context.Context, u *url.URL, body []byte) (int, error) {
	ts := time.Now().Unix()
	nonce := uuid.NewString()
	sig := SignHMAC(p.Secret, Canonical(http.MethodPost, requestPath(u), ts, nonce, body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Set("X-Api-Key", p.APIKey)
	}
	req.Header.Set("X-Signature", sig)
	req.Header.Set("X-Timestamp", strconv.FormatInt(ts, 10))
	req.Header.Set("X-Nonce", nonce)

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	rb, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: rb}
	}
	return resp.StatusCode, nil
}

// requestPath 与请求行一致的路径，无路径的 URL 按 "/" 签名
func requestPath(u *url.URL) string {
	if path := u.EscapedPath(); path != "" {
		return path
	}
	return "/"
}
