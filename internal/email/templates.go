package email

import (
	"fmt"

	"github.com/cbroglie/mustache"
)

// Kind names one transactional email
type Kind string

const (
	KindBriefMatch            Kind = "brief_match"
	KindApplicationAccepted   Kind = "application_accepted"
	KindApplicationRejected   Kind = "application_rejected"
	KindSubscriptionConfirmed Kind = "subscription_confirmed"
)

type template struct {
	subject *mustache.Template
	body    *mustache.Template
}

func mustacheMust(s string) *mustache.Template {
	t, err := mustache.ParseString(s)
	if err != nil {
		panic(err)
	}
	return t
}

const layoutOpen = `<!DOCTYPE html>
<html lang="en">
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color:#222; max-width:600px; margin:0 auto; padding:20px;">
`

const layoutClose = `
	<p style="font-size:14px; margin:24px 0 0 0;">Kind regards,<br>The Creator Marketplace team</p>
</body>
</html>
`

const briefMatchTmpl = layoutOpen + `
	<p style="font-size:14px;">Hi {{name}},</p>
	<p style="font-size:14px;">A new brief matches your profile: <b>{{title}}</b> from {{brand}}.</p>
	{{#budget}}<p style="font-size:14px;"><b>Budget:</b> {{budget}}</p>{{/budget}}
	{{#deadline}}<p style="font-size:14px;"><b>Apply by:</b> {{deadline}}</p>{{/deadline}}
	<p style="font-size:14px;"><a href="{{url}}">View the brief</a></p>
` + layoutClose

const applicationAcceptedTmpl = layoutOpen + `
	<p style="font-size:14px;">Hi {{name}},</p>
	<p style="font-size:14px;">Good news! {{brand}} accepted your application for <b>{{title}}</b>.</p>
	<p style="font-size:14px;"><a href="{{url}}">Open your applications</a></p>
` + layoutClose

const applicationRejectedTmpl = layoutOpen + `
	<p style="font-size:14px;">Hi {{name}},</p>
	<p style="font-size:14px;">{{brand}} has decided not to go ahead with your application for <b>{{title}}</b>.</p>
	<p style="font-size:14px;">New briefs are posted every week, <a href="{{url}}">take a look</a>.</p>
` + layoutClose

const subscriptionConfirmedTmpl = layoutOpen + `
	<p style="font-size:14px;">Hi {{company}},</p>
	<p style="font-size:14px;">Your <b>{{tier}}</b> subscription is active. You have {{credits}} campaign credit(s) this period.</p>
	<p style="font-size:14px;"><a href="{{url}}">Post a brief</a></p>
` + layoutClose

var templates = map[Kind]template{
	KindBriefMatch: {
		subject: mustacheMust("New brief: {{{title}}}"),
		body:    mustacheMust(briefMatchTmpl),
	},
	KindApplicationAccepted: {
		subject: mustacheMust("You've been accepted for {{{title}}}"),
		body:    mustacheMust(applicationAcceptedTmpl),
	},
	KindApplicationRejected: {
		subject: mustacheMust("Update on your application for {{{title}}}"),
		body:    mustacheMust(applicationRejectedTmpl),
	},
	KindSubscriptionConfirmed: {
		subject: mustacheMust("Your {{tier}} subscription is confirmed"),
		body:    mustacheMust(subscriptionConfirmedTmpl),
	},
}

// Render produces the subject and HTML body of a kind of email
func Render(kind Kind, data map[string]interface{}) (subject, body string, err error) {
	tmpl, ok := templates[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", kind)
	}
	if subject, err = tmpl.subject.Render(data); err != nil {
		return "", "", fmt.Errorf("render %s subject: %w", kind, err)
	}
	if body, err = tmpl.body.Render(data); err != nil {
		return "", "", fmt.Errorf("render %s body: %w", kind, err)
	}
	return subject, body, nil
}
