package rpc

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/kakha13/localdomain/internal/port/inbound"
	"github.com/kakha13/localdomain/internal/rpcdomain"
)

// handleConnection reads newline-delimited JSON-RPC requests from conn,
// dispatches each against svc, and writes back a newline-delimited
// response, until conn's reader returns EOF or an error.
func handleConnection(svc inbound.DaemonService, conn io.ReadWriter, logger *slog.Logger) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	writer := bufio.NewWriter(conn)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req rpcdomain.Request
		var resp rpcdomain.Response
		if err := json.Unmarshal(line, &req); err != nil {
			resp = rpcdomain.ErrorResponse(0, rpcdomain.ErrParseError, "Parse error: "+err.Error())
		} else {
			resp = Dispatch(svc, req)
		}

		encoded, err := json.Marshal(resp)
		if err != nil {
			logger.Error("encode rpc response", "error", err)
			return
		}
		if _, err := writer.Write(encoded); err != nil {
			return
		}
		if err := writer.WriteByte('\n'); err != nil {
			return
		}
		if err := writer.Flush(); err != nil {
			return
		}
	}
}
