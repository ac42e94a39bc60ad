// Package logaccess reads and clears the per-domain JSON access logs
// written by the reverse proxy.
package logaccess

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kakha13/localdomain/internal/platform"
	"github.com/kakha13/localdomain/internal/rpcdomain"
)

type rawEntry struct {
	Timestamp   float64         `json:"ts"`
	Status      uint16          `json:"status"`
	Duration    float64         `json:"duration"`
	Size        uint64          `json:"size"`
	RespHeaders json.RawMessage `json:"resp_headers"`
	Request     struct {
		Method   string          `json:"method"`
		URI      string          `json:"uri"`
		Host     string          `json:"host"`
		Headers  json.RawMessage `json:"headers"`
		RemoteIP string          `json:"remote_ip"`
		Proto    string          `json:"proto"`
	} `json:"request"`
}

// Read returns the most recent limit entries for domain's access log,
// newest first. A missing log file yields an empty slice, not an error.
func Read(domain string, limit uint64) ([]rpcdomain.AccessLogEntry, error) {
	return ReadPath(platform.AccessLogPath(domain), limit)
}

// ReadPath is Read parameterized on the log file path, for testing.
func ReadPath(path string, limit uint64) ([]rpcdomain.AccessLogEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []rpcdomain.AccessLogEntry{}, nil
		}
		return nil, fmt.Errorf("open access log: %w", err)
	}
	defer file.Close()

	var entries []rpcdomain.AccessLogEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var raw rawEntry
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			continue
		}

		entries = append(entries, rpcdomain.AccessLogEntry{
			Timestamp:   raw.Timestamp,
			Method:      raw.Request.Method,
			URI:         raw.Request.URI,
			Status:      raw.Status,
			Duration:    raw.Duration,
			Size:        raw.Size,
			Host:        raw.Request.Host,
			Headers:     rawMessageOrNil(raw.Request.Headers),
			RespHeaders: rawMessageOrNil(raw.RespHeaders),
			RemoteIP:    raw.Request.RemoteIP,
			Proto:       raw.Request.Proto,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan access log: %w", err)
	}

	if uint64(len(entries)) > limit {
		entries = entries[uint64(len(entries))-limit:]
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}

func rawMessageOrNil(m json.RawMessage) interface{} {
	if len(m) == 0 {
		return nil
	}
	return m
}

// Clear truncates domain's access log to zero bytes. Caddy keeps its file
// handle open across log rotation, so truncating in place (rather than
// removing the file) lets it continue writing without a restart.
func Clear(domain string) error {
	return ClearPath(platform.AccessLogPath(domain))
}

// ClearPath is Clear parameterized on the log file path, for testing.
func ClearPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat access log: %w", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return fmt.Errorf("truncate access log: %w", err)
	}
	return nil
}
