package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Connection failures are split so main can print remediation guidance
// for the transport case and a credential hint for the handshake case.
var (
	ErrUnreachable     = errors.New("obs unreachable")
	ErrHandshakeFailed = errors.New("obs handshake failed")
)

// RequestError is a request the server accepted on the wire but
// rejected (unknown input name, bad parameter, and so on).
type RequestError struct {
	Type    string
	Code    int
	Comment string
}

func (e *RequestError) Error() string {
	if e.Comment != "" {
		return fmt.Sprintf("%s rejected (code %d): %s", e.Type, e.Code, e.Comment)
	}
	return fmt.Sprintf("%s rejected (code %d)", e.Type, e.Code)
}

// VersionInfo is the subset of GetVersion reported on connect.
type VersionInfo struct {
	OBSVersion          string `json:"obsVersion"`
	OBSWebSocketVersion string `json:"obsWebSocketVersion"`
}

// InputVolumeLevels is an input's current volume in both scales.
type InputVolumeLevels struct {
	Db  float64 `json:"inputVolumeDb"`
	Mul float64 `json:"inputVolumeMul"`
}

// obsClient defines the capability surface commands run against.
// This allows for mocking in tests.
type obsClient interface {
	Version() (VersionInfo, error)
	InputVolume(input string) (InputVolumeLevels, error)
	SetInputVolume(input string, vol VolumeSpec) error
	ToggleInputMute(input string) error
	ToggleStream() (bool, error)
	ToggleRecord() (bool, error)
	SetCurrentProgramScene(scene string) error
	Close() error
}

// OBSClient manages the authenticated WebSocket session to OBS.
type OBSClient struct {
	mu          sync.Mutex
	conn        *websocket.Conn
	logger      *slog.Logger
	readTimeout time.Duration
}

// connectClient dials the obs-websocket server and performs the
// Hello/Identify handshake, returning an identified client.
func connectClient(ctx context.Context, host string, port int, password string, logger *slog.Logger, readTimeout time.Duration) (*OBSClient, error) {
	u := url.URL{Scheme: "ws", Host: fmt.Sprintf("%s:%d", host, port)}

	d := websocket.Dialer{
		HandshakeTimeout: handshakeTimeoutMS * time.Millisecond,
		Subprotocols:     []string{"obswebsocket.json"},
	}

	conn, _, err := d.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w: %w", u.String(), ErrUnreachable, err)
	}

	c := &OBSClient{
		conn:        conn,
		logger:      logger,
		readTimeout: readTimeout,
	}

	if err := c.identify(password); err != nil {
		conn.Close()
		return nil, err
	}

	return c, nil
}

// identify runs the opening Hello/Identify/Identified exchange. An auth
// challenge in Hello requires a password; without one the attempt fails
// before Identify is even sent.
func (c *OBSClient) identify(password string) error {
	var hello helloData
	if err := c.readTyped(opHello, &hello); err != nil {
		return fmt.Errorf("%w: read hello: %w", ErrHandshakeFailed, err)
	}

	ident := identifyData{RPCVersion: rpcVersion}
	if hello.Authentication != nil {
		if password == "" {
			return fmt.Errorf("%w: server requires a password but none is configured", ErrHandshakeFailed)
		}
		ident.Authentication = authResponse(password, hello.Authentication.Salt, hello.Authentication.Challenge)
	}

	if err := c.writeMessage(opIdentify, ident); err != nil {
		return fmt.Errorf("%w: send identify: %w", ErrHandshakeFailed, err)
	}

	var identified identifiedData
	if err := c.readTyped(opIdentified, &identified); err != nil {
		return fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
	}

	c.logger.Debug("identified",
		"server_version", hello.OBSWebSocketVersion,
		"rpc_version", identified.NegotiatedRPCVersion)
	return nil
}

func (c *OBSClient) writeMessage(op int, d any) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal op %d: %w", op, err)
	}
	env, err := json.Marshal(message{Op: op, D: payload})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return c.conn.WriteMessage(websocket.TextMessage, env)
}

// readTyped reads frames until one matching op arrives and decodes its
// payload into v. Events and unrelated frames are skipped.
func (c *OBSClient) readTyped(op int, v any) error {
	c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	defer c.conn.SetReadDeadline(time.Time{})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}
		var env message
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode frame: %w", err)
		}
		if env.Op != op {
			continue
		}
		return json.Unmarshal(env.D, v)
	}
}

// request performs one RPC round-trip: send a Request frame with a
// fresh id, then wait for the RequestResponse carrying that id.
func (c *OBSClient) request(reqType string, reqData any, respInto any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("%s: connection closed", reqType)
	}

	id := uuid.NewString()
	req := requestData{RequestType: reqType, RequestID: id, RequestData: reqData}
	if err := c.writeMessage(opRequest, req); err != nil {
		return fmt.Errorf("%s: %w", reqType, err)
	}

	c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	defer c.conn.SetReadDeadline(time.Time{})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("%s: %w", reqType, err)
		}
		var env message
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("%s: decode frame: %w", reqType, err)
		}
		if env.Op != opRequestResponse {
			// Events arrive interleaved with responses; not ours.
			continue
		}
		var resp responseData
		if err := json.Unmarshal(env.D, &resp); err != nil {
			return fmt.Errorf("%s: decode response: %w", reqType, err)
		}
		if resp.RequestID != id {
			continue
		}
		if !resp.RequestStatus.Result {
			return &RequestError{
				Type:    reqType,
				Code:    resp.RequestStatus.Code,
				Comment: resp.RequestStatus.Comment,
			}
		}
		if respInto != nil && len(resp.ResponseData) > 0 {
			if err := json.Unmarshal(resp.ResponseData, respInto); err != nil {
				return fmt.Errorf("%s: decode response data: %w", reqType, err)
			}
		}
		return nil
	}
}

// Version queries the OBS and obs-websocket versions.
func (c *OBSClient) Version() (VersionInfo, error) {
	var v VersionInfo
	if err := c.request("GetVersion", nil, &v); err != nil {
		return VersionInfo{}, err
	}
	return v, nil
}

// InputVolume returns the input's current volume in both scales.
func (c *OBSClient) InputVolume(input string) (InputVolumeLevels, error) {
	var levels InputVolumeLevels
	if err := c.request("GetInputVolume", map[string]any{"inputName": input}, &levels); err != nil {
		return InputVolumeLevels{}, fmt.Errorf("get-volume %s: %w", input, err)
	}
	return levels, nil
}

// SetInputVolume sets the input's absolute volume in the scale the
// target was resolved to.
func (c *OBSClient) SetInputVolume(input string, vol VolumeSpec) error {
	req := map[string]any{"inputName": input}
	if vol.Unit == UnitDecibel {
		req["inputVolumeDb"] = vol.Value
	} else {
		req["inputVolumeMul"] = vol.Value
	}
	if err := c.request("SetInputVolume", req, nil); err != nil {
		return fmt.Errorf("set-volume %s: %w", input, err)
	}
	return nil
}

// ToggleInputMute toggles the input's mute state.
func (c *OBSClient) ToggleInputMute(input string) error {
	if err := c.request("ToggleInputMute", map[string]any{"inputName": input}, nil); err != nil {
		return fmt.Errorf("toggle-mute %s: %w", input, err)
	}
	return nil
}

// ToggleStream toggles streaming and returns the new output state.
func (c *OBSClient) ToggleStream() (bool, error) {
	var resp struct {
		OutputActive bool `json:"outputActive"`
	}
	if err := c.request("ToggleStream", nil, &resp); err != nil {
		return false, fmt.Errorf("toggle-stream: %w", err)
	}
	return resp.OutputActive, nil
}

// ToggleRecord toggles recording and returns the new output state.
func (c *OBSClient) ToggleRecord() (bool, error) {
	var resp struct {
		OutputActive bool `json:"outputActive"`
	}
	if err := c.request("ToggleRecord", nil, &resp); err != nil {
		return false, fmt.Errorf("toggle-record: %w", err)
	}
	return resp.OutputActive, nil
}

// SetCurrentProgramScene switches the program scene.
func (c *OBSClient) SetCurrentProgramScene(scene string) error {
	if err := c.request("SetCurrentProgramScene", map[string]any{"sceneName": scene}, nil); err != nil {
		return fmt.Errorf("set-scene %s: %w", scene, err)
	}
	return nil
}

// Close closes the WebSocket connection.
func (c *OBSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	return nil
}
