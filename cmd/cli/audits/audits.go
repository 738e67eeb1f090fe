package audits

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/crucial707/asset-audit/cmd/cli/config"
	"github.com/crucial707/asset-audit/cmd/cli/output"
	"github.com/spf13/cobra"
)

// ==========================
// Init Audits
// ==========================
func InitAudits(rootCmd *cobra.Command) {

	auditsCmd := &cobra.Command{
		Use:   "audits",
		Short: "Manage audit records",
	}

	auditsCmd.AddCommand(
		listAuditsCmd(),
		resolveAuditsCmd(),
		deleteAuditCmd(),
		exportAuditsCmd(),
	)

	rootCmd.AddCommand(auditsCmd)
}

// auditRow mirrors the API's audit record shape.
type auditRow struct {
	ID                   int64  `json:"id"`
	AssetTag             string `json:"asset_tag"`
	AssetName            string `json:"asset_name"`
	ExpectedLocationName string `json:"expected_location_name"`
	ActualLocationName   string `json:"actual_location_name"`
	Status               string `json:"status"`
	UserName             string `json:"user_name"`
	CreatedAt            string `json:"created_at"`
}

// ==========================
// LIST
// ==========================
func listAuditsCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit records, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			url := config.APIURL() + "/v1/audits"
			if user != "" {
				url += "?user=" + user
			}

			body, err := apiGet(url)
			if err != nil {
				fmt.Println(err)
				return
			}

			var records []auditRow
			if err := json.Unmarshal(body, &records); err != nil {
				fmt.Println("decode response:", err)
				return
			}

			rows := make([][]interface{}, 0, len(records))
			for _, rec := range records {
				created := rec.CreatedAt
				if t, err := time.Parse(time.RFC3339, rec.CreatedAt); err == nil {
					created = t.Format("2006-01-02 15:04")
				}
				rows = append(rows, []interface{}{
					rec.ID, rec.AssetTag, rec.AssetName,
					rec.ExpectedLocationName, rec.ActualLocationName,
					rec.Status, rec.UserName, created,
				})
			}
			output.RenderTable(
				[]string{"ID", "TAG", "NAME", "EXPECTED", "ACTUAL", "STATUS", "USER", "CREATED"},
				rows,
			)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "filter by user name")
	return cmd
}

// ==========================
// RESOLVE
// ==========================
func resolveAuditsCmd() *cobra.Command {
	var ids string
	var by string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve mismatched audits (patches remote location, marks resolved)",
		Run: func(cmd *cobra.Command, args []string) {
			idList, err := parseIDs(ids)
			if err != nil {
				fmt.Println(err)
				return
			}

			payload, _ := json.Marshal(map[string]any{
				"ids":         idList,
				"resolved_by": by,
			})
			body, err := apiPost(config.APIURL()+"/v1/audits/resolve", payload)
			if err != nil {
				fmt.Println(err)
				return
			}

			var report struct {
				Succeeded int `json:"succeeded"`
				Failed    int `json:"failed"`
				Items     []struct {
					ID       int64  `json:"id"`
					Resolved bool   `json:"resolved"`
					Error    string `json:"error"`
				} `json:"items"`
			}
			if err := json.Unmarshal(body, &report); err != nil {
				fmt.Println("decode response:", err)
				return
			}

			rows := make([][]interface{}, 0, len(report.Items))
			for _, item := range report.Items {
				rows = append(rows, []interface{}{item.ID, item.Resolved, item.Error})
			}
			output.RenderTable([]string{"ID", "RESOLVED", "ERROR"}, rows)
			fmt.Printf("%d succeeded, %d failed\n", report.Succeeded, report.Failed)
		},
	}

	cmd.Flags().StringVar(&ids, "ids", "", "comma-separated audit ids (required)")
	cmd.Flags().StringVar(&by, "by", "", "resolver name (default Admin)")
	cmd.MarkFlagRequired("ids")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an audit record",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req, _ := http.NewRequest(http.MethodDelete, config.APIURL()+"/v1/audits/"+args[0], nil)
			req.Header.Set("X-API-Token", config.Token())

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusNoContent {
				body, _ := io.ReadAll(resp.Body)
				fmt.Printf("delete failed (%d): %s\n", resp.StatusCode, body)
				return
			}
			fmt.Println("deleted")
		},
	}
}

// ==========================
// EXPORT
// ==========================
func exportAuditsCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download all audits as CSV",
		Run: func(cmd *cobra.Command, args []string) {
			body, err := apiGet(config.APIURL() + "/v1/audits/export")
			if err != nil {
				fmt.Println(err)
				return
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				fmt.Println("write file:", err)
				return
			}
			fmt.Println("wrote", out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "audits.csv", "output file")
	return cmd
}

// ==========================
// Helpers
// ==========================

func parseIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no ids given")
	}
	return ids, nil
}

func apiGet(url string) ([]byte, error) {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("X-API-Token", config.Token())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed (%d): %s", resp.StatusCode, body)
	}
	return body, nil
}

func apiPost(url string, payload []byte) ([]byte, error) {
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("X-API-Token", config.Token())
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("request failed (%d): %s", resp.StatusCode, body)
	}
	return body, nil
}
