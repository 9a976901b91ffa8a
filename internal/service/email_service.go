package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"lexio/internal/models"
)

// EmailService sends transactional email via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service that skips every send
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail greets a newly registered professional
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): welcome to %s", toEmail)
		return nil
	}

	subject := "Bienvenido a Lexio"
	htmlBody := fmt.Sprintf(`
		<h2>Hola %s,</h2>
		<p>Tu cuenta en Lexio está lista. Ya puedes registrar niños y
		lanzar evaluaciones desde tu panel.</p>
		<p><a href="%s/dashboard">Ir al panel</a></p>
	`, toName, s.appBaseURL)
	textBody := fmt.Sprintf(
		"Hola %s,\n\nTu cuenta en Lexio está lista. Entra a tu panel en %s/dashboard\n",
		toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendEvaluationReport mails an evaluation's final numbers to the
// professional who ran it
func (s *EmailService) SendEvaluationReport(ctx context.Context, toEmail, toName, childName string, evaluation *models.Evaluation) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): evaluation report to %s", toEmail)
		return nil
	}

	resultsLink := fmt.Sprintf("%s/evaluations/%d/results/", s.appBaseURL, evaluation.ID)
	subject := fmt.Sprintf("Evaluación completada: %s", childName)
	htmlBody := fmt.Sprintf(`
		<h2>Hola %s,</h2>
		<p>%s completó su evaluación. Resumen:</p>
		<ul>
			<li>Puntaje total: %d</li>
			<li>Preguntas respondidas: %d</li>
			<li>Tiempo total: %.1f minutos</li>
			<li>Precisión promedio: %.1f%%</li>
		</ul>
		<p><a href="%s">Ver el informe completo</a></p>
	`, toName, childName,
		evaluation.TotalScore, evaluation.QuestionsAnswered,
		evaluation.TotalTimeMinutes(), evaluation.AveragePrecision,
		resultsLink)
	textBody := fmt.Sprintf(
		"Hola %s,\n\n%s completó su evaluación.\n\nPuntaje total: %d\nPreguntas respondidas: %d\nTiempo total: %.1f minutos\nPrecisión promedio: %.1f%%\n\nInforme completo: %s\n",
		toName, childName,
		evaluation.TotalScore, evaluation.QuestionsAnswered,
		evaluation.TotalTimeMinutes(), evaluation.AveragePrecision,
		resultsLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent: to=%s, subject=%s", toEmail, subject)
	return nil
}
