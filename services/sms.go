package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/fetchops/ai-project-catalog/errs"
	"github.com/fetchops/ai-project-catalog/models"
)

// MessageCreator is the slice of the Twilio API used to send texts
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// SMSNotifier texts a short announcement to a fixed list of numbers
type SMSNotifier struct {
	api     MessageCreator
	from    string
	to      []string
	baseURL string
}

// NewTwilioNotifier builds an SMSNotifier backed by the Twilio REST API
func NewTwilioNotifier(accountSID, authToken, from string, to []string, baseURL string) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewSMSNotifier(client.Api, from, to, baseURL)
}

func NewSMSNotifier(api MessageCreator, from string, to []string, baseURL string) *SMSNotifier {
	return &SMSNotifier{api: api, from: from, to: to, baseURL: baseURL}
}

func (s *SMSNotifier) NotifyNewProject(ctx context.Context, project models.Project) error {
	body := FormatSMSMessage(project, s.baseURL)

	for _, number := range s.to {
		if err := ctx.Err(); err != nil {
			return err
		}

		params := &openapi.CreateMessageParams{}
		params.SetTo(number)
		params.SetFrom(s.from)
		params.SetBody(body)

		msg, err := s.api.CreateMessage(params)
		if err != nil {
			return errs.NewUpstreamError("twilio", 0, err)
		}
		if msg != nil && msg.Sid != nil {
			log.Debug().Str("sid", *msg.Sid).Uint("projectId", project.ID).Msg("sms notification sent")
		}
	}
	return nil
}

// FormatSMSMessage renders a single-line announcement suitable for a text message
func FormatSMSMessage(project models.Project, baseURL string) string {
	title := project.Title
	if title == "" {
		title = "(Untitled)"
	}
	msg := fmt.Sprintf("New AI project: %s (%s, %s)", title, orDash(project.Team), orDash(project.Owner))
	if u := BuildProjectURL(baseURL, project.ID); u != "" {
		msg += " " + u
	}
	return msg
}
