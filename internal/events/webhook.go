package events

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

// Webhook 以签名 HTTP POST 推送事件，5xx/网络错误时退避重试
type Webhook struct {
	Client   *http.Client
	Endpoint string
	APIKey   string
	Secret   string
	Retries  int
	Backoff  []time.Duration
}

func NewWebhook(client *http.Client, endpoint, apiKey, secret string) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Webhook{
		Client:   client,
		Endpoint: endpoint,
		APIKey:   apiKey,
		Secret:   secret,
		Retries:  3,
		Backoff:  []time.Duration{100 * time.Millisecond, 500 * time.Millisecond, time.Second},
	}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Publish(ctx context.Context, ev *Event) error {
	if w == nil || w.Client == nil {
		return errors.New("nil webhook")
	}
	u, err := url.Parse(w.Endpoint)
	if err != nil {
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= w.Retries; attempt++ {
		code, err := w.post(ctx, u.Path, body)
		switch {
		case err != nil:
			lastErr = err
		case code >= 200 && code < 300:
			return nil
		case code < 500:
			// 4xx 不重试
			return fmt.Errorf("webhook http %d", code)
		default:
			lastErr = fmt.Errorf("webhook http %d", code)
		}
		if attempt == w.Retries || len(w.Backoff) == 0 {
			break
		}
		backoff := w.Backoff[min(attempt, len(w.Backoff)-1)]
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return lastErr
}

func (w *Webhook) post(ctx context.Context, path string, body []byte) (int, error) {
	ts := time.Now().Unix()
	nonce := uuid.NewString()
	sig := SignHMAC(w.Secret, buildCanonical(http.MethodPost, path, ts, nonce, hashHex(body)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.Endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", w.APIKey)
	req.Header.Set("X-Signature", sig)
	req.Header.Set("X-Timestamp", strconv.FormatInt(ts, 10))
	req.Header.Set("X-Nonce", nonce)

	resp, err := w.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
