package rpc

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/kakha13/localdomain/internal/rpcdomain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleConnection_RespondsToPing(t *testing.T) {
	defer goleak.VerifyNone(t)

	client, server := net.Pipe()
	done := make(chan struct{})
	go func() {
		handleConnection(&mockService{}, server, discardLogger())
		close(done)
	}()

	req, _ := json.Marshal(rpcdomain.Request{Method: "ping", ID: 1})
	req = append(req, '\n')
	if _, err := client.Write(req); err != nil {
		t.Fatalf("write request: %v", err)
	}

	reader := bufio.NewReader(client)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	var resp rpcdomain.Response
	if err := json.Unmarshal(line, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Result != "pong" {
		t.Errorf("expected pong, got %v", resp.Result)
	}

	client.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handleConnection did not return after client close")
	}
}

func TestHandleConnection_MalformedLineReturnsParseError(t *testing.T) {
	defer goleak.VerifyNone(t)

	client, server := net.Pipe()
	done := make(chan struct{})
	go func() {
		handleConnection(&mockService{}, server, discardLogger())
		close(done)
	}()

	if _, err := client.Write([]byte("not json\n")); err != nil {
		t.Fatalf("write request: %v", err)
	}

	reader := bufio.NewReader(client)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	var resp rpcdomain.Response
	if err := json.Unmarshal(line, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != rpcdomain.ErrParseError {
		t.Fatalf("expected parse error, got %+v", resp.Error)
	}

	client.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handleConnection did not return after client close")
	}
}

func TestHandleConnection_MultipleRequestsOverSameConnection(t *testing.T) {
	defer goleak.VerifyNone(t)

	client, server := net.Pipe()
	done := make(chan struct{})
	go func() {
		handleConnection(&mockService{}, server, discardLogger())
		close(done)
	}()

	reader := bufio.NewReader(client)
	for i := uint64(1); i <= 3; i++ {
		req, _ := json.Marshal(rpcdomain.Request{Method: "ping", ID: i})
		req = append(req, '\n')
		if _, err := client.Write(req); err != nil {
			t.Fatalf("write request %d: %v", i, err)
		}

		line, err := reader.ReadBytes('\n')
		if err != nil {
			t.Fatalf("read response %d: %v", i, err)
		}
		var resp rpcdomain.Response
		if err := json.Unmarshal(line, &resp); err != nil {
			t.Fatalf("unmarshal response %d: %v", i, err)
		}
		if resp.ID != i {
			t.Errorf("request %d: expected id %d, got %d", i, i, resp.ID)
		}
	}

	client.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handleConnection did not return after client close")
	}
}
