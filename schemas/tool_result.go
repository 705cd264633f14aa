package schemas

import "encoding/json"

// ToolResult is the envelope every tool call comes back in. Exactly one of
// Result and Error is set.
type ToolResult struct {
	Tool   string `json:"tool"`
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Wrap normalizes a tool outcome. A non-empty error discards the payload.
func Wrap(tool string, result any, errText string) ToolResult {
	if errText != "" {
		return ToolResult{
			Tool:  tool,
			Error: errText,
		}
	}
	return ToolResult{
		Tool:   tool,
		OK:     true,
		Result: result,
	}
}

// Render returns the envelope as a compact JSON tool message.
func (r ToolResult) Render() string {
	data, err := json.Marshal(r)
	if err != nil {
		return `{"ok":false,"error":"unrenderable tool result"}`
	}
	return string(data)
}
