package notification

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

const dateLayout = "2006-01-02"

type templatePair struct {
	text *texttemplate.Template
	html *htmltemplate.Template
}

func mustPair(name, text, html string) templatePair {
	return templatePair{
		text: texttemplate.Must(texttemplate.New(name).Parse(text)),
		html: htmltemplate.Must(htmltemplate.New(name).Parse(html)),
	}
}

func (p templatePair) render(data any) (string, string, error) {
	var tb, hb bytes.Buffer
	if err := p.text.Execute(&tb, data); err != nil {
		return "", "", err
	}
	if err := p.html.Execute(&hb, data); err != nil {
		return "", "", err
	}
	return tb.String(), hb.String(), nil
}

type mailData struct {
	RecipientName string
	EmployeeName  string
	LeaveType     string
	StartDate     string
	EndDate       string
	Days          int
	Reason        string
	ApproveURL    string
	RejectURL     string
	FinalStatus   string
	ApproverName  string
	Remark        string
}

var approvalRequestTemplates = mustPair("approval_request",
	`Hello {{.RecipientName}},

{{.EmployeeName}} has requested {{.LeaveType}} from {{.StartDate}} to {{.EndDate}} ({{.Days}} day(s)).
{{if .Reason}}Reason: {{.Reason}}
{{end}}{{if .ApproveURL}}
Approve: {{.ApproveURL}}
Reject: {{.RejectURL}}

These links can be used once and expire in 7 days.
{{else}}
Please review the request in the leave portal.
{{end}}`,
	`<p>Hello {{.RecipientName}},</p>
<p>{{.EmployeeName}} has requested <strong>{{.LeaveType}}</strong> from {{.StartDate}} to {{.EndDate}} ({{.Days}} day(s)).</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
{{if .ApproveURL}}<p><a href="{{.ApproveURL}}">Approve</a> | <a href="{{.RejectURL}}">Reject</a></p>
<p>These links can be used once and expire in 7 days.</p>{{else}}<p>Please review the request in the leave portal.</p>{{end}}`,
)

var decisionTemplates = mustPair("decision",
	`Hello {{.RecipientName}},

Your {{.LeaveType}} request from {{.StartDate}} to {{.EndDate}} was {{.FinalStatus}} by {{.ApproverName}}.
{{if .Remark}}Remark: {{.Remark}}
{{end}}`,
	`<p>Hello {{.RecipientName}},</p>
<p>Your {{.LeaveType}} request from {{.StartDate}} to {{.EndDate}} was <strong>{{.FinalStatus}}</strong> by {{.ApproverName}}.</p>
{{if .Remark}}<p>Remark: {{.Remark}}</p>{{end}}`,
)

var orgWideTemplates = mustPair("org_wide",
	`{{.EmployeeName}} will be on {{.LeaveType}} from {{.StartDate}} to {{.EndDate}} ({{.Days}} day(s)). Approved by {{.ApproverName}}.
`,
	`<p>{{.EmployeeName}} will be on {{.LeaveType}} from {{.StartDate}} to {{.EndDate}} ({{.Days}} day(s)).</p>
<p>Approved by {{.ApproverName}}.</p>`,
)

func summaryData(l LeaveSummary) mailData {
	return mailData{
		EmployeeName: l.EmployeeName,
		LeaveType:    l.LeaveType,
		StartDate:    l.StartDate.Format(dateLayout),
		EndDate:      l.EndDate.Format(dateLayout),
		Days:         l.Days,
		Reason:       l.Reason,
	}
}
