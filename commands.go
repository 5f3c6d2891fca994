package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mock_gateway/apidoc"
	"mock_gateway/client"
	"mock_gateway/config"
	"mock_gateway/mail"
)

func newOpenAPICmd() *cobra.Command {
	var format, errorBehavior string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the API document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled := config.Load(envFile).ErrorBehavior()
			if cmd.Flags().Changed("errors") {
				enabled = config.ParseErrorBehavior(errorBehavior)
			}
			return writeOpenAPI(cmd.OutOrStdout(), format, enabled)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	cmd.Flags().StringVar(&errorBehavior, "errors", "enabled", "Document simulated errors: enabled or disabled (defaults to "+config.ErrorBehaviorEnv+")")
	return cmd
}

func writeOpenAPI(w io.Writer, format string, errorsEnabled bool) error {
	doc := apidoc.Build(errorsEnabled)

	switch format {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal api document: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := apidoc.YAML(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func newSendSMSCmd() *cobra.Command {
	var baseURL string
	var req client.SMSRequest

	cmd := &cobra.Command{
		Use:   "send-sms",
		Short: "Send an SMS through a running gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := client.New(baseURL).SendSMS(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8000", "Gateway base URL")
	cmd.Flags().StringVar(&req.To, "to", "", "Destination phone number")
	cmd.Flags().StringVar(&req.From, "from", "", "Sender phone number")
	cmd.Flags().StringVar(&req.Body, "body", "", "Message text")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newSendEmailCmd() *cobra.Command {
	var baseURL string
	var draft mail.Draft

	cmd := &cobra.Command{
		Use:   "send-email",
		Short: "Compose an email and send it through a running gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := client.New(baseURL).SendDraft(cmd.Context(), draft)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8000", "Gateway base URL")
	cmd.Flags().StringVar(&draft.From, "from", "", "Sender address")
	cmd.Flags().StringArrayVar(&draft.To, "to", nil, "Recipient address (repeatable)")
	cmd.Flags().StringArrayVar(&draft.Cc, "cc", nil, "Cc address (repeatable)")
	cmd.Flags().StringArrayVar(&draft.Bcc, "bcc", nil, "Bcc address (repeatable)")
	cmd.Flags().StringVar(&draft.Subject, "subject", "", "Subject line")
	cmd.Flags().StringVar(&draft.Body, "body", "", "Plain-text body")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
