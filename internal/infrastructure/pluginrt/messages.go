package pluginrt

import (
	"encoding/json"
	"fmt"

	"github.com/weave-pm/weave/internal/application/ports"
)

// messageType discriminates the envelope carried in every frame.
// Host→Plugin and Plugin→Host share the same envelope shape so a
// single codec handles both directions.
type messageType string

const (
	typePerformAction          messageType = "performAction"
	typeBuildOperationResponse messageType = "buildOperationResponse"
	typeTestOperationResponse  messageType = "testOperationResponse"
	typeSymbolGraphResponse    messageType = "symbolGraphResponse"
	typeErrorResponse          messageType = "errorResponse"

	typeEmitDiagnostic        messageType = "emitDiagnostic"
	typeDefineBuildCommand    messageType = "defineBuildCommand"
	typeDefinePrebuildCommand messageType = "definePrebuildCommand"
	typeBuildOperationRequest messageType = "buildOperationRequest"
	typeTestOperationRequest  messageType = "testOperationRequest"
	typeSymbolGraphRequest    messageType = "symbolGraphRequest"
)

// envelope is the wire shape of every frame: a type tag plus a raw
// body the recipient decodes according to that tag.
type envelope struct {
	Type messageType     `json:"type"`
	Body json.RawMessage `json:"body"`
}

// PerformActionInput is the opaque per-invocation payload the host
// sends the plugin to kick off the exchange.
type PerformActionInput struct {
	Parameters map[string]string `json:"parameters"`
}

type performAction struct {
	Input PerformActionInput `json:"input"`
}

type operationResult struct {
	Result map[string]string `json:"result"`
}

type errorResponseBody struct {
	Error string `json:"error"`
}

type emitDiagnosticBody struct {
	Severity ports.DiagnosticSeverity `json:"severity"`
	Message  string                   `json:"message"`
	File     string                   `json:"file,omitempty"`
	Line     int                      `json:"line,omitempty"`
}

type defineBuildCommandBody struct {
	DisplayName string   `json:"displayName"`
	Executable  string   `json:"executable"`
	Arguments   []string `json:"arguments"`
	Inputs      []string `json:"inputs"`
	Outputs     []string `json:"outputs"`
}

type definePrebuildCommandBody struct {
	DisplayName string   `json:"displayName"`
	Executable  string   `json:"executable"`
	Arguments   []string `json:"arguments"`
	OutputDir   string   `json:"outputDir"`
}

type operationRequestBody struct {
	Subset     []string          `json:"subset"`
	Parameters map[string]string `json:"parameters"`
}

type symbolGraphRequestBody struct {
	Target  string            `json:"target"`
	Options map[string]string `json:"options"`
}

func encodeEnvelope(t messageType, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s body: %w", t, err)
	}
	payload, err := json.Marshal(envelope{Type: t, Body: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope %s: %w", t, err)
	}
	return payload, nil
}

func encodePerformAction(input PerformActionInput) ([]byte, error) {
	return encodeEnvelope(typePerformAction, performAction{Input: input})
}

func encodeBuildOperationResponse(result map[string]string) ([]byte, error) {
	return encodeEnvelope(typeBuildOperationResponse, operationResult{Result: result})
}

func encodeTestOperationResponse(result map[string]string) ([]byte, error) {
	return encodeEnvelope(typeTestOperationResponse, operationResult{Result: result})
}

func encodeSymbolGraphResponse(result map[string]string) ([]byte, error) {
	return encodeEnvelope(typeSymbolGraphResponse, operationResult{Result: result})
}

func encodeErrorResponse(message string) ([]byte, error) {
	return encodeEnvelope(typeErrorResponse, errorResponseBody{Error: message})
}

// decodedMessage is the host-side view of one Plugin→Host frame after
// its envelope has been peeled and its body parsed.
type decodedMessage struct {
	kind            messageType
	diagnostic      emitDiagnosticBody
	buildCommand    defineBuildCommandBody
	prebuildCommand definePrebuildCommandBody
	request         operationRequestBody
	symbolGraph     symbolGraphRequestBody
}

func decodePluginMessage(raw []byte) (decodedMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return decodedMessage{}, fmt.Errorf("decode envelope: %w", err)
	}

	msg := decodedMessage{kind: env.Type}
	var err error
	switch env.Type {
	case typeEmitDiagnostic:
		err = json.Unmarshal(env.Body, &msg.diagnostic)
	case typeDefineBuildCommand:
		err = json.Unmarshal(env.Body, &msg.buildCommand)
	case typeDefinePrebuildCommand:
		err = json.Unmarshal(env.Body, &msg.prebuildCommand)
	case typeBuildOperationRequest, typeTestOperationRequest:
		err = json.Unmarshal(env.Body, &msg.request)
	case typeSymbolGraphRequest:
		err = json.Unmarshal(env.Body, &msg.symbolGraph)
	default:
		return decodedMessage{}, fmt.Errorf("unknown plugin message type %q", env.Type)
	}
	if err != nil {
		return decodedMessage{}, fmt.Errorf("decode %s body: %w", env.Type, err)
	}
	return msg, nil
}
