package app

import (
	"bytes"
	"fmt"
	"html"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"deal_deadline_notifier/internal/domain/deal"
	"deal_deadline_notifier/internal/domain/delivery"

	"github.com/microcosm-cc/bluemonday"
)

const (
	unassignedRepLabel   = "Unassigned"
	unnamedRepLabel      = "Assigned Rep"
	alertSubjectTemplate = "DD Deadline Alert: %s"
)

var alertHTML = htmltemplate.Must(htmltemplate.New("alert_html").Parse(
	`<p><strong>Deal:</strong> {{.Address}}</p>
<p><strong>Acq Manager:</strong> {{.AcqManager}}</p>
<p><strong>Assigned Rep:</strong> {{.AssignedRep}}</p>
<p><strong>DD Deadline:</strong> {{.Deadline}}</p>
<p><strong>Time Remaining:</strong> ~{{.HoursLeft}} hours</p>
{{if .DashboardURL}}<p><a href="{{.DashboardURL}}">Open the Deal Dashboard</a> and take action.</p>{{else}}<p>Open the Deal Dashboard and take action.</p>{{end}}`))

var alertText = texttemplate.Must(texttemplate.New("alert_text").Parse(
	`DD Deadline Alert
Deal: {{.Address}}
Acq Manager: {{.AcqManager}}
Assigned Rep: {{.AssignedRep}}
DD Deadline: {{.Deadline}}
Time Remaining: ~{{.HoursLeft}} hours
Recipients: {{.Recipients}}{{if .DashboardURL}}
{{.DashboardURL}}{{end}}`))

// Deal fields are typed in by users; strip any markup before they reach a
// subject line or a plain-text channel.
var strictPolicy = bluemonday.StrictPolicy()

func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

type alertView struct {
	Address      string
	AcqManager   string
	AssignedRep  string
	Deadline     string
	HoursLeft    int
	Recipients   string
	DashboardURL string
}

// renderAlert builds the message for one deal.
func renderAlert(from string, d *deal.Deal, repName string, hours int, recipients []string, dashboardURL string) (delivery.Message, error) {
	view := alertView{
		Address:      plainText(d.Address),
		AcqManager:   plainText(d.AcqManagerFirstName),
		AssignedRep:  plainText(repName),
		Deadline:     d.DeadlineDate(),
		HoursLeft:    hours,
		Recipients:   strings.Join(recipients, ", "),
		DashboardURL: dashboardURL,
	}

	var htmlBody bytes.Buffer
	if err := alertHTML.Execute(&htmlBody, view); err != nil {
		return delivery.Message{}, fmt.Errorf("render html alert: %w", err)
	}
	var textBody bytes.Buffer
	if err := alertText.Execute(&textBody, view); err != nil {
		return delivery.Message{}, fmt.Errorf("render text alert: %w", err)
	}

	return delivery.Message{
		From:    from,
		To:      recipients,
		Subject: fmt.Sprintf(alertSubjectTemplate, view.Address),
		HTML:    htmlBody.String(),
		Text:    textBody.String(),
	}, nil
}
