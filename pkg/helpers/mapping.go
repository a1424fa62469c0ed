package helpers

import (
	"fmt"

	"github.com/oksasatya/go-appointment-scheduler/pkg/mailer"
	mailtpl "github.com/oksasatya/go-appointment-scheduler/pkg/mailer/templates"
)

// RenderEmailJob turns a queued job into subject, text and html.
// Jobs without a template are sent as-is.
func RenderEmailJob(job *mailer.EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", fmt.Errorf("email job for %q has neither template nor body", job.To)
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	EnsureRecipientAndEmail(job)
	return mailtpl.Render(job.Template, job.Data)
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}
