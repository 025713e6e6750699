package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrCDNRequestFailed = errors.New("CDN request failed")

const cdnUploadPath = "post-media"

type cdnStorage struct {
	origin     string
	httpClient *http.Client
}

func NewCDN(origin string) Storage {
	return &cdnStorage{
		origin:     strings.TrimRight(origin, "/"),
		httpClient: &http.Client{Timeout: time.Minute},
	}
}

func (s *cdnStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader, mediaType string, ext string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	fileWriter, err := writer.CreateFormFile("file", fileHeader.Filename)
	if err != nil {
		return "", fmt.Errorf("create file part for CDN request: %w", err)
	}

	if _, err := io.Copy(fileWriter, file); err != nil {
		return "", fmt.Errorf("copy file content for CDN request: %w", err)
	}

	if err := writer.WriteField("path", cdnUploadPath); err != nil {
		return "", fmt.Errorf("write path field for CDN request: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close writer for CDN request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.origin+"/upload", &requestBody)
	if err != nil {
		return "", fmt.Errorf("create CDN request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Add("type", strings.ToUpper(mediaType))

	body, err := s.do(req)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(body)), nil
}

func (s *cdnStorage) Remove(ctx context.Context, mediaURL string) error {
	endpoint := s.origin + "/delete?url=" + url.QueryEscape(mediaURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create CDN request: %w", err)
	}

	_, err = s.do(req)
	return err
}

func (s *cdnStorage) do(req *http.Request) ([]byte, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do CDN request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body from CDN: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var bodyJSON map[string]interface{}
		if err := json.Unmarshal(body, &bodyJSON); err != nil {
			return nil, fmt.Errorf("%w: endpoint(%s) code(%d)", ErrCDNRequestFailed, req.URL.Path, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: endpoint(%s) code(%d) details: %v", ErrCDNRequestFailed, req.URL.Path, resp.StatusCode, bodyJSON["details"])
	}

	return body, nil
}
