// Package rpc is the inbound adapter that serves the daemon's JSON-RPC 2.0
// API over a length-delimited-by-newline stream, one request per line, on a
// UNIX socket (or a Windows named pipe).
package rpc

import (
	"encoding/json"

	"github.com/kakha13/localdomain/internal/port/inbound"
	"github.com/kakha13/localdomain/internal/rpcdomain"
)

// Dispatch decodes req.Params into the shape each method expects, invokes
// the matching DaemonService operation, and builds the JSON-RPC response.
func Dispatch(svc inbound.DaemonService, req rpcdomain.Request) rpcdomain.Response {
	id := req.ID

	switch req.Method {
	case "ping":
		return rpcdomain.SuccessResponse(id, "pong")

	case "status":
		return rpcdomain.SuccessResponse(id, svc.Status())

	case "sync_hosts":
		var params rpcdomain.SyncHostsParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			return invalidParams(id, err)
		}
		if err := svc.SyncHosts(params.Entries); err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, nil)

	case "sync_caddy_config":
		var params rpcdomain.SyncCaddyConfigParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			return invalidParams(id, err)
		}
		if err := svc.SyncCaddyConfig(params); err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, nil)

	case "start_caddy":
		if err := svc.StartCaddy(); err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, nil)

	case "stop_caddy":
		if err := svc.StopCaddy(); err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, nil)

	case "generate_ca":
		if err := svc.GenerateCA(); err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, nil)

	case "generate_cert":
		var params rpcdomain.GenerateCertParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			return invalidParams(id, err)
		}
		result, err := svc.GenerateCert(params.Domain)
		if err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, result)

	case "install_ca_trust":
		if err := svc.InstallCATrust(); err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, nil)

	case "remove_ca_trust":
		if err := svc.RemoveCATrust(); err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, nil)

	case "get_access_log":
		var params rpcdomain.GetAccessLogParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			return invalidParams(id, err)
		}
		limit := uint64(100)
		if params.Limit != nil {
			limit = *params.Limit
		}
		entries, err := svc.GetAccessLog(params.Domain, limit)
		if err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, entries)

	case "clear_access_log":
		var params rpcdomain.ClearAccessLogParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			return invalidParams(id, err)
		}
		if err := svc.ClearAccessLog(params.Domain); err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, nil)

	case "start_tunnel":
		var params rpcdomain.StartTunnelParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			return invalidParams(id, err)
		}
		result, err := svc.StartTunnel(params)
		if err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, result)

	case "stop_tunnel":
		var params rpcdomain.StopTunnelParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			return invalidParams(id, err)
		}
		if err := svc.StopTunnel(params); err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, nil)

	case "tunnel_status":
		var params rpcdomain.TunnelStatusParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			return invalidParams(id, err)
		}
		return rpcdomain.SuccessResponse(id, svc.TunnelStatus(params))

	case "list_tunnels":
		return rpcdomain.SuccessResponse(id, svc.ListTunnels())

	case "ensure_cloudflared":
		result, err := svc.EnsureCloudflared()
		if err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, result)

	case "stop_all_tunnels":
		svc.StopAllTunnels()
		return rpcdomain.SuccessResponse(id, nil)

	case "detect_xampp":
		return rpcdomain.SuccessResponse(id, svc.DetectXampp())

	case "sync_xampp_config":
		var params rpcdomain.SyncXamppConfigParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			return invalidParams(id, err)
		}
		if err := svc.SyncXamppConfig(params); err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, nil)

	case "start_apache":
		var params rpcdomain.XamppActionParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			return invalidParams(id, err)
		}
		if err := svc.StartApache(params.XamppPath); err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, nil)

	case "stop_apache":
		var params rpcdomain.XamppActionParams
		if err := unmarshalParams(req.Params, &params); err != nil {
			return invalidParams(id, err)
		}
		if err := svc.StopApache(params.XamppPath); err != nil {
			return internalError(id, err)
		}
		return rpcdomain.SuccessResponse(id, nil)

	default:
		return rpcdomain.ErrorResponse(id, rpcdomain.ErrMethodNotFound, "Method not found")
	}
}

func unmarshalParams(raw json.RawMessage, dest interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func invalidParams(id uint64, err error) rpcdomain.Response {
	return rpcdomain.ErrorResponse(id, rpcdomain.ErrInvalidParams, err.Error())
}

func internalError(id uint64, err error) rpcdomain.Response {
	return rpcdomain.ErrorResponse(id, rpcdomain.ErrInternalError, err.Error())
}
