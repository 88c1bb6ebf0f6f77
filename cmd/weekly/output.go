package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// printOutput 按指定格式输出响应数据
// text 模式下优先使用 render 把 data 字段格式化为可读文本
func printOutput(w io.Writer, format string, data []byte, render func(data json.RawMessage) (string, error)) error {
	if format == "json" || render == nil {
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			// 非 JSON 数据直接输出
			fmt.Fprintln(w, string(data))
			return nil
		}
		fmt.Fprintln(w, out.String())
		return nil
	}

	var env struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		fmt.Fprintln(w, string(data))
		return nil
	}
	text, err := render(env.Data)
	if err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if env.Message != "" && text == "" {
		text = env.Message
	}
	fmt.Fprintln(w, text)
	return nil
}
