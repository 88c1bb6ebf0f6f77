package main

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"
)

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "保存与恢复看板草稿",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "保存当前看板为草稿（覆盖旧草稿）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			data, err := NewAPIClient(cfg).Request(http.MethodPost, "/api/v1/draft", nil)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderMessage)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "load",
		Short: "读取草稿替换当前看板",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			data, err := NewAPIClient(cfg).Request(http.MethodPost, "/api/v1/draft/load", nil)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderWeek)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "查看是否存在已保存的草稿",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			data, err := NewAPIClient(cfg).Get("/api/v1/draft")
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, func(raw json.RawMessage) (string, error) {
				var st struct {
					Exists bool `json:"exists"`
				}
				if err := json.Unmarshal(raw, &st); err != nil {
					return "", err
				}
				if st.Exists {
					return "draft: saved", nil
				}
				return "draft: none", nil
			})
		},
	})
	return cmd
}
