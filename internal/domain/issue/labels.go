package issue

// Japanese display labels used by generated statements and reports.

var TypeLabels = map[Type]string{
	TypeMissingClockIn:    "出勤打刻漏れ",
	TypeMissingClockOut:   "退勤打刻漏れ",
	TypeInsufficientBreak: "休憩不足",
	TypeOvertime:          "長時間労働",
	TypeNightWork:         "深夜勤務",
	TypeInconsistency:     "データ不整合",
}

var SeverityLabels = map[Severity]string{
	SeverityHigh:   "高",
	SeverityMedium: "中",
	SeverityLow:    "低",
}

var StatusLabels = map[Status]string{
	StatusPending:    "未対応",
	StatusInProgress: "対応中",
	StatusCompleted:  "完了",
}

var CauseLabels = map[CauseCategory]string{
	CauseForgotClock:        "打刻忘れ",
	CauseDeviceIssue:        "端末不具合",
	CauseWorkReason:         "業務都合",
	CauseApplicationMissing: "申請漏れ",
	CauseOther:              "その他",
}

var ActionLabels = map[ActionTaken]string{
	ActionCorrectionRequest:    "修正依頼",
	ActionEmployeeConfirmation: "本人確認",
	ActionOvertimeApplication:  "残業申請",
	ActionWarning:              "注意喚起",
	ActionAnnouncement:         "周知",
}

var PreventionLabels = map[Prevention]string{
	PreventionOperationNotice: "運用周知の徹底",
	PreventionDevicePlacement: "打刻端末の配置見直し",
	PreventionChecklist:       "確認チェックリストの導入",
	PreventionDoubleCheck:     "ダブルチェック体制の構築",
}

// labelOr returns the label for key, or the key itself when none is defined.
func labelOr[K ~string](labels map[K]string, key K) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return string(key)
}

func (t Type) Label() string          { return labelOr(TypeLabels, t) }
func (s Severity) Label() string      { return labelOr(SeverityLabels, s) }
func (s Status) Label() string        { return labelOr(StatusLabels, s) }
func (c CauseCategory) Label() string { return labelOr(CauseLabels, c) }
func (a ActionTaken) Label() string   { return labelOr(ActionLabels, a) }
func (p Prevention) Label() string    { return labelOr(PreventionLabels, p) }
