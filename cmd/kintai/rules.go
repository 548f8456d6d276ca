package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// policyKeys maps viper keys to flag names and the default they start from.
var policyKeys = []struct {
	key   string
	flag  string
	usage string
	def   func(setting.PolicyConfig) int
}{
	{"policy.break_minutes_6h", "break-6h", "required break minutes for more than 6 hours worked", func(p setting.PolicyConfig) int { return p.BreakMinutesOver6h }},
	{"policy.break_minutes_8h", "break-8h", "required break minutes for more than 8 hours worked", func(p setting.PolicyConfig) int { return p.BreakMinutesOver8h }},
	{"policy.daily_work_hours_alert", "overtime-hours", "worked hours above which overtime is reported", func(p setting.PolicyConfig) int { return p.DailyHoursOvertimeAlert }},
	{"policy.night_start_hour", "night-start", "start hour of the night window", func(p setting.PolicyConfig) int { return p.NightStartHour }},
	{"policy.night_end_hour", "night-end", "end hour of the night window", func(p setting.PolicyConfig) int { return p.NightEndHour }},
}

func addPolicyFlags(cmd *cobra.Command) {
	defaults := setting.DefaultPolicy()
	for _, k := range policyKeys {
		cmd.PersistentFlags().Int(k.flag, k.def(defaults), k.usage)
		_ = viper.BindPFlag(k.key, cmd.PersistentFlags().Lookup(k.flag))
	}
}

func policyFromViper(v *viper.Viper) (setting.PolicyConfig, error) {
	p := setting.PolicyConfig{
		BreakMinutesOver6h:      v.GetInt("policy.break_minutes_6h"),
		BreakMinutesOver8h:      v.GetInt("policy.break_minutes_8h"),
		DailyHoursOvertimeAlert: v.GetInt("policy.daily_work_hours_alert"),
		NightStartHour:          v.GetInt("policy.night_start_hour"),
		NightEndHour:            v.GetInt("policy.night_end_hour"),
	}

	req := setting.UpdateRulesRequest{
		BreakMinutesOver6h:      &p.BreakMinutesOver6h,
		BreakMinutesOver8h:      &p.BreakMinutesOver8h,
		DailyHoursOvertimeAlert: &p.DailyHoursOvertimeAlert,
		NightStartHour:          &p.NightStartHour,
		NightEndHour:            &p.NightEndHour,
	}
	if err := req.Validate(); err != nil {
		return setting.PolicyConfig{}, fmt.Errorf("invalid policy: %w", err)
	}
	return p, nil
}

func rulesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective detection policy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := policyFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			return printPolicy(cmd.OutOrStdout(), policy, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func printPolicy(w io.Writer, p setting.PolicyConfig, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Width(26)
	rows := []struct {
		name  string
		value string
	}{
		{"Break over 6h (min)", fmt.Sprint(p.BreakMinutesOver6h)},
		{"Break over 8h (min)", fmt.Sprint(p.BreakMinutesOver8h)},
		{"Overtime alert (h)", fmt.Sprint(p.DailyHoursOvertimeAlert)},
		{"Night window", fmt.Sprintf("%02d:00-%02d:00", p.NightStartHour, p.NightEndHour)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, label.Render(r.name)+r.value); err != nil {
			return err
		}
	}
	return nil
}
