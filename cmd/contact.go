package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/portfolio-client/pkg/analytics"
	"github.com/nikogura/portfolio-client/pkg/contact"
	"github.com/nikogura/portfolio-client/pkg/portfolio"
)

//nolint:gochecknoglobals // Cobra boilerplate
var contactSubmission portfolio.ContactSubmission

//nolint:gochecknoglobals // Cobra boilerplate
var contactInquiryType string

//nolint:gochecknoglobals // Cobra boilerplate
var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a contact message",
	Long: `Send a message through the portfolio's contact form.

Name, email and message are required. Inquiry type is one of general (default),
consulting, employment or collaboration.

Example:
  portfolio contact --name "Ada" --email ada@example.com --message "Let's talk"
  portfolio contact --name "Ada" --email ada@example.com --company Acme \
    --inquiry-type consulting --message "We need help with a migration"`,
	Args: cobra.NoArgs,
	RunE: runContact,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(contactCmd)
	contactCmd.Flags().StringVar(&contactSubmission.Name, "name", "", "Your name (required)")
	contactCmd.Flags().StringVar(&contactSubmission.Email, "email", "", "Your email (required)")
	contactCmd.Flags().StringVar(&contactSubmission.Message, "message", "", "Message body (required)")
	contactCmd.Flags().StringVar(&contactSubmission.Company, "company", "", "Company name")
	contactCmd.Flags().StringVar(&contactInquiryType, "inquiry-type", string(portfolio.InquiryGeneral), "Inquiry type")
}

func runContact(cmd *cobra.Command, args []string) (err error) {
	var rt session
	rt, err = newSession()
	if err != nil {
		return err
	}
	defer rt.close()

	submission := contactSubmission
	submission.InquiryType = portfolio.InquiryType(contactInquiryType)

	form := contact.NewForm(rt.service, printNotifier(os.Stdout), rt.logger)
	_, err = form.Submit(context.Background(), submission)
	if err != nil {
		// The notifier has already printed the failure.
		err = errors.Wrap(errReported, err.Error())
		return err
	}

	rt.tracker.Go(context.Background(), portfolio.Visit{Page: analytics.EventPagePrefix + "contact_submitted"})

	return err
}

// printNotifier writes notifications as single lines.
func printNotifier(out io.Writer) (notifier contact.NotifierFunc) {
	notifier = func(n contact.Notification) {
		marker := "+"
		if n.Kind == contact.KindError {
			marker = "!"
		}
		fmt.Fprintf(out, "%s %s %s\n", marker, n.Title, n.Description)
	}
	return notifier
}
