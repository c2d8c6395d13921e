package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"seulink/internal/viewer"
)

func newVCardCmd(configPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "vcard <username>",
		Short: "Write a profile's contact card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			res := a.viewer.Lookup(cmd.Context(), args[0])
			if !res.OK() {
				return fmt.Errorf("profile %q not found", args[0])
			}
			body, err := viewer.VCard(res.Profile, viewer.PublicURL(a.baseURL(), res.Profile.Username))
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, body)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newQRCmd(configPath *string) *cobra.Command {
	var (
		out  string
		size int
	)
	cmd := &cobra.Command{
		Use:   "qr <username>",
		Short: "Write a PNG QR code for a profile's public page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			res := a.viewer.Lookup(cmd.Context(), args[0])
			if !res.OK() {
				return fmt.Errorf("profile %q not found", args[0])
			}
			png, err := viewer.QRCode(viewer.PublicURL(a.baseURL(), res.Profile.Username), size)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, png)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	cmd.Flags().IntVar(&size, "size", viewer.DefaultQRSize, "image size in pixels")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
