/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/k1LoW/icongen"
	"github.com/k1LoW/icongen/config"
	"github.com/spf13/cobra"
)

var verifyJSON bool

var verifyCmd = &cobra.Command{
	Use:   "verify [FILE]",
	Short: "verify a generated icon",
	Long: `verify a generated icon.

It checks that FILE (default: the configured output) is a PNG with the expected size and
background, and that it looks like a fresh rendering of the configured icon.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger, closeLogger, err := newLogger(cmd.ErrOrStderr(), false)
		if err != nil {
			return err
		}
		defer closeLogger()
		icon, _, err := resolveIcon(cmd)
		if err != nil {
			return err
		}
		path := icon.Output
		if len(args) > 0 {
			path = args[0]
		}
		g, err := icongen.New(
			icongen.WithIcon(icon),
			icongen.WithLogger(logger),
			icongen.WithFontLoader(icongen.NewFontLoader(config.FontCachePath(), logger)),
		)
		if err != nil {
			return err
		}
		r, err := g.Verify(ctx, path)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if verifyJSON {
			b, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(w, string(b))
		} else {
			green := color.New(color.FgGreen)
			red := color.New(color.FgRed)
			for _, c := range r.Checks {
				if c.OK {
					_, _ = green.Fprint(w, "✓ ")
				} else {
					_, _ = red.Fprint(w, "✗ ")
				}
				_, _ = fmt.Fprintf(w, "%-10s %s\n", c.Name, c.Detail)
			}
		}
		if !r.OK() {
			return fmt.Errorf("verification failed: %s", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVarP(&verifyJSON, "json", "", false, "print the report as JSON")
}
