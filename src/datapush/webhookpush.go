package datapush

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"TravelSurveyAnalytics/src/config"
)

const (
	RETRY_TIMES    = 5
	RETRY_INTERVAL = 2 * time.Second
)

// webhookResponse is the acknowledgement shape of DingTalk style
// robots. ErrCode zero means delivered.
type webhookResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// PushSummary delivers the run summary to the configured webhook robot.
// The robot keyword is prefixed so keyword-filtered robots accept the
// message. Delivery is retried before giving up.
func PushSummary(cfg *config.Config, summary string) error {
	if cfg.Push.WebhookURL == "" {
		return nil
	}

	content := summary
	if cfg.Push.Keyword != "" {
		content = cfg.Push.Keyword + "\n" + summary
	}

	return retry(func() error {
		return sendWebhookMessage(cfg.Push.WebhookURL, content)
	}, RETRY_TIMES, RETRY_INTERVAL)
}

func sendWebhookMessage(url, content string) error {
	payload := map[string]interface{}{
		"msgtype": "text",
		"text": map[string]string{
			"content": content,
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling webhook payload: %v", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return fmt.Errorf("creating webhook request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading webhook response: %v", err)
	}

	var result webhookResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("parsing webhook response: %v", err)
	}

	if result.ErrCode != 0 {
		return fmt.Errorf("webhook rejected message: %s", result.ErrMsg)
	}

	return nil
}

func retry(fn func() error, times int, interval time.Duration) error {
	var err error
	for i := 0; i < times; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < times-1 {
			time.Sleep(interval)
		}
	}
	return fmt.Errorf("giving up after %d attempts: %v", times, err)
}
