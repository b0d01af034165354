package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"portfoliohub/pkg/apperrors"
	"portfoliohub/pkg/circuitbreaker"
	"portfoliohub/pkg/config"
	"portfoliohub/pkg/metrics"
)

// Client talks to the external object-storage service. The core never
// inspects file contents; it only needs put, signed-url and delete.
type Client struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(cfg config.StorageConfig, logger *zap.Logger) *Client {
	cbConfig := circuitbreaker.Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 2,
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		bucket:  cfg.Bucket,
		httpClient: &http.Client{
			Timeout: 15 * time.Second, // uploads can be slow, but never hang a request forever
		},
		cb:     circuitbreaker.NewCircuitBreaker(cbConfig),
		logger: logger,
	}
}

// Put uploads an object and returns its storage path. The caller must await
// this before writing any metadata row so a failed upload never leaves an
// orphaned reference.
func (c *Client) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	endpoint := fmt.Sprintf("%s/object/%s/%s", c.baseURL, c.bucket, url.PathEscape(path))

	err := c.cb.Execute(func() error {
		start := time.Now()

		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, doErr := c.httpClient.Do(req)
		latency := time.Since(start)
		if doErr != nil {
			metrics.RecordStorageCallLatency("put", "error", latency)
			return doErr
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			metrics.RecordStorageCallLatency("put", "failed", latency)
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("storage put returned %d: %s", resp.StatusCode, body)
		}

		metrics.RecordStorageCallLatency("put", "success", latency)
		return nil
	})
	if err != nil {
		c.logger.Error("Object upload failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", apperrors.Wrap(err, apperrors.CodeStorage, "failed to upload object")
	}

	c.logger.Info("Object uploaded",
		zap.String("path", path),
		zap.Int("size_bytes", len(data)),
	)
	return path, nil
}

// SignedURL returns a time-limited download URL for a stored object.
func (c *Client) SignedURL(ctx context.Context, path string, ttlSeconds int) (string, error) {
	endpoint := fmt.Sprintf("%s/object/sign/%s/%s", c.baseURL, c.bucket, url.PathEscape(path))

	var signed string
	err := c.cb.Execute(func() error {
		start := time.Now()

		body, marshalErr := json.Marshal(map[string]int{"expiresIn": ttlSeconds})
		if marshalErr != nil {
			return marshalErr
		}

		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, doErr := c.httpClient.Do(req)
		latency := time.Since(start)
		if doErr != nil {
			metrics.RecordStorageCallLatency("sign", "error", latency)
			return doErr
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			metrics.RecordStorageCallLatency("sign", "failed", latency)
			return fmt.Errorf("storage sign returned %d", resp.StatusCode)
		}

		var result struct {
			SignedURL string `json:"signedURL"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&result); decodeErr != nil {
			metrics.RecordStorageCallLatency("sign", "error", latency)
			return decodeErr
		}

		metrics.RecordStorageCallLatency("sign", "success", latency)
		signed = c.baseURL + result.SignedURL
		return nil
	})
	if err != nil {
		c.logger.Error("Signed URL request failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", apperrors.Wrap(err, apperrors.CodeStorage, "failed to sign object url")
	}

	return signed, nil
}

// Delete removes a stored object.
func (c *Client) Delete(ctx context.Context, path string) error {
	endpoint := fmt.Sprintf("%s/object/%s/%s", c.baseURL, c.bucket, url.PathEscape(path))

	err := c.cb.Execute(func() error {
		start := time.Now()

		req, reqErr := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, doErr := c.httpClient.Do(req)
		latency := time.Since(start)
		if doErr != nil {
			metrics.RecordStorageCallLatency("delete", "error", latency)
			return doErr
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			metrics.RecordStorageCallLatency("delete", "failed", latency)
			return fmt.Errorf("storage delete returned %d", resp.StatusCode)
		}

		metrics.RecordStorageCallLatency("delete", "success", latency)
		return nil
	})
	if err != nil {
		c.logger.Error("Object delete failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return apperrors.Wrap(err, apperrors.CodeStorage, "failed to delete object")
	}
	return nil
}
