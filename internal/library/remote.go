package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mattelier/mattelier-backend/internal/domain"
	"github.com/mattelier/mattelier-backend/internal/platform/logger"
)

// requestTimeout bounds every mirror call. On expiry the in-flight request
// is cancelled and the operation counts as failed; there is no automatic
// retry.
const requestTimeout = 5 * time.Second

// ExportEnvelope is the mirror PUT body and the export file format.
type ExportEnvelope struct {
	Version    int               `json:"version"`
	ExportedAt int64             `json:"exportedAt"`
	Materials  []domain.Material `json:"materials"`
}

// mirrorClient talks to the optional remote HTTP mirror. All failures are
// returned as errors for the repository to swallow; nothing here is fatal.
type mirrorClient struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

func newMirrorClient(baseURL string, client *http.Client, log *logger.Logger) *mirrorClient {
	if client == nil {
		client = &http.Client{}
	}
	return &mirrorClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client,
		log:     log.With("client", "mirror"),
	}
}

func (c *mirrorClient) putMaterials(ctx context.Context, materials []domain.Material, now int64) error {
	body, err := json.Marshal(ExportEnvelope{Version: 1, ExportedAt: now, Materials: materials})
	if err != nil {
		return fmt.Errorf("marshal mirror body: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/materials", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mirror PUT /materials: status %d", resp.StatusCode)
	}
	return nil
}

// getMaterials fetches the remote collection and returns the raw decoded
// records. Both `{materials: [...]}` and a bare array are accepted; any
// other shape is a failure.
func (c *mirrorClient) getMaterials(ctx context.Context) ([]any, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/materials", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("mirror GET /materials: status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("mirror GET /materials: malformed body: %w", err)
	}
	switch v := parsed.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if list, ok := v["materials"].([]any); ok {
			return list, nil
		}
	}
	return nil, fmt.Errorf("mirror GET /materials: unexpected body shape")
}
