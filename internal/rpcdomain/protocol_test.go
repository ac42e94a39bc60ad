package rpcdomain

import (
	"encoding/json"
	"testing"
)

func TestSuccessResponse(t *testing.T) {
	t.Parallel()

	resp := SuccessResponse(7, StatusResult{DaemonRunning: true})
	if resp.JSONRPC != "2.0" || resp.ID != 7 || resp.Error != nil {
		t.Fatalf("unexpected response shape: %+v", resp)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("invalid json: %s", raw)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, hasError := decoded["error"]; hasError {
		t.Errorf("success response should omit \"error\" field, got %s", raw)
	}
}

func TestErrorResponse(t *testing.T) {
	t.Parallel()

	resp := ErrorResponse(3, ErrMethodNotFound, "method not found")
	if resp.Result != nil {
		t.Errorf("error response should have nil Result, got %v", resp.Result)
	}
	if resp.Error == nil || resp.Error.Code != ErrMethodNotFound || resp.Error.Message != "method not found" {
		t.Fatalf("unexpected error field: %+v", resp.Error)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, hasResult := decoded["result"]; hasResult {
		t.Errorf("error response should omit \"result\" field, got %s", raw)
	}
}

func TestGetAccessLogParams_LimitOmittedWhenNil(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(GetAccessLogParams{Domain: "example.test"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, hasLimit := decoded["limit"]; hasLimit {
		t.Errorf("expected limit to be omitted when nil, got %s", raw)
	}
}

func TestTunnelType_RoundTrip(t *testing.T) {
	t.Parallel()

	original := TunnelType{
		Type:       TunnelKindSSH,
		Host:       "example.com",
		Port:       2222,
		User:       "deploy",
		RemotePort: 8080,
	}

	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded TunnelType
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
}
