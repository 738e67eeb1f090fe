package assets

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/crucial707/asset-audit/cmd/cli/config"
	"github.com/crucial707/asset-audit/cmd/cli/output"
	"github.com/spf13/cobra"
)

// ==========================
// Init Assets
// ==========================
func InitAssets(rootCmd *cobra.Command) {

	rootCmd.AddCommand(
		snapshotCmd(),
		lookupCmd(),
		locationsCmd(),
		whoamiCmd(),
	)
}

type assetRow struct {
	ID                 int64  `json:"id"`
	Tag                string `json:"asset_tag"`
	Name               string `json:"name"`
	Location           string `json:"location"`
	LastAuditDate      string `json:"last_audit_date"`
	NextAuditDate      string `json:"next_audit_date"`
	NeverAudited       bool   `json:"never_audited"`
	NotAuditedThisYear bool   `json:"not_audited_this_year"`
	AuditOverdue       bool   `json:"audit_overdue"`
}

// ==========================
// SNAPSHOT
// ==========================
func snapshotCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Show the classified inventory snapshot",
		Run: func(cmd *cobra.Command, args []string) {
			u := config.APIURL() + "/v1/assets/snapshot"
			if refresh {
				u += "?refresh=true"
			}

			body, err := apiGet(u)
			if err != nil {
				fmt.Println(err)
				return
			}

			var snap struct {
				Total              int        `json:"total"`
				NeverAudited       []assetRow `json:"never_audited"`
				NotAuditedThisYear []assetRow `json:"not_audited_this_year"`
				AuditOverdue       []assetRow `json:"audit_overdue"`
				Cached             bool       `json:"cached"`
				AgeSeconds         int64      `json:"age_seconds"`
			}
			if err := json.Unmarshal(body, &snap); err != nil {
				fmt.Println("decode response:", err)
				return
			}

			src := "fresh"
			if snap.Cached {
				src = fmt.Sprintf("cached, %ds old", snap.AgeSeconds)
			}
			fmt.Printf("%d assets (%s)\n", snap.Total, src)
			fmt.Printf("never audited: %d, not audited this year: %d, overdue: %d\n",
				len(snap.NeverAudited), len(snap.NotAuditedThisYear), len(snap.AuditOverdue))

			if len(snap.AuditOverdue) > 0 {
				fmt.Println("\nOverdue:")
				rows := make([][]interface{}, 0, len(snap.AuditOverdue))
				for _, a := range snap.AuditOverdue {
					rows = append(rows, []interface{}{a.ID, a.Tag, a.Name, a.Location, a.NextAuditDate})
				}
				output.RenderTable([]string{"ID", "TAG", "NAME", "LOCATION", "NEXT AUDIT"}, rows)
			}
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "force a full refetch")
	return cmd
}

// ==========================
// LOOKUP
// ==========================
func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <tag-or-sap-number>",
		Short: "Find an asset by tag or SAP number",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			body, err := apiGet(config.APIURL() + "/v1/assets/lookup?term=" + url.QueryEscape(args[0]))
			if err != nil {
				fmt.Println(err)
				return
			}

			var out any
			json.Unmarshal(body, &out)
			b, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(b))
		},
	}
}

// ==========================
// LOCATIONS
// ==========================
func locationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List top-level locations",
		Run: func(cmd *cobra.Command, args []string) {
			body, err := apiGet(config.APIURL() + "/v1/locations")
			if err != nil {
				fmt.Println(err)
				return
			}

			var locations []struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
			}
			if err := json.Unmarshal(body, &locations); err != nil {
				fmt.Println("decode response:", err)
				return
			}

			rows := make([][]interface{}, 0, len(locations))
			for _, loc := range locations {
				rows = append(rows, []interface{}{loc.ID, loc.Name})
			}
			output.RenderTable([]string{"ID", "NAME"}, rows)
		},
	}
}

// ==========================
// WHOAMI
// ==========================
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the remote directory user the API credential belongs to",
		Run: func(cmd *cobra.Command, args []string) {
			body, err := apiGet(config.APIURL() + "/v1/me")
			if err != nil {
				fmt.Println(err)
				return
			}

			var out any
			json.Unmarshal(body, &out)
			b, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(b))
		},
	}
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
