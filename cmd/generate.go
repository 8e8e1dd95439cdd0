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
	"context"
	"fmt"

	"github.com/k1LoW/icongen"
	"github.com/k1LoW/icongen/config"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

const successMessage = "Icon created successfully!"

var (
	out         string
	text        string
	width       int
	height      int
	originX     int
	originY     int
	bg          string
	fg          string
	fontRef     string
	fontSize    float64
	compression string
	tauriSet    bool
	watch       bool
	open        bool
)

// resolveIcon merges the built-in icon, the config file and the flags given on the command line.
func resolveIcon(cmd *cobra.Command) (*icongen.Icon, *config.Config, error) {
	cfg, err := config.Load(configFile, profile)
	if err != nil {
		return nil, nil, err
	}
	fs := cmd.Flags()
	if fs.Changed("out") {
		cfg.Output = out
	}
	if fs.Changed("text") {
		cfg.Text = &text
	}
	if fs.Changed("width") {
		cfg.Width = &width
	}
	if fs.Changed("height") {
		cfg.Height = &height
	}
	if fs.Changed("x") {
		cfg.X = &originX
	}
	if fs.Changed("y") {
		cfg.Y = &originY
	}
	if fs.Changed("bg") {
		cfg.Background = bg
	}
	if fs.Changed("fg") {
		cfg.Foreground = fg
	}
	if fs.Changed("font") {
		cfg.Font = fontRef
	}
	if fs.Changed("font-size") {
		cfg.FontSize = &fontSize
	}
	if fs.Changed("compression") {
		cfg.Compression = compression
	}
	if fs.Changed("tauri-set") {
		cfg.TauriSet = &tauriSet
	}
	icon := icongen.DefaultIcon()
	if err := cfg.Apply(icon); err != nil {
		return nil, nil, err
	}
	if err := icon.Validate(); err != nil {
		return nil, nil, err
	}
	return icon, cfg, nil
}

func runGenerate(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger, closeLogger, err := newLogger(cmd.ErrOrStderr(), watch)
	if err != nil {
		return err
	}
	defer closeLogger()

	var w *icongen.Watcher
	generate := func(ctx context.Context) (*icongen.Icon, *config.Config, error) {
		icon, cfg, err := resolveIcon(cmd)
		if err != nil {
			return nil, nil, err
		}
		if err := icongen.GenerateIcon(ctx,
			icongen.WithIcon(icon),
			icongen.WithLogger(logger),
			icongen.WithFontLoader(icongen.NewFontLoader(config.FontCachePath(), logger)),
		); err != nil {
			return nil, nil, err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), successMessage)
		if err := icongen.NewHook(cfg.Hook, logger).Run(ctx, icon.Output); err != nil {
			return nil, nil, err
		}
		if w != nil {
			// The config may now point at another font file.
			for _, f := range watchFiles(icon, cfg) {
				if err := w.Add(f); err != nil {
					return nil, nil, err
				}
			}
		}
		return icon, cfg, nil
	}
	icon, cfg, err := generate(ctx)
	if err != nil {
		return err
	}
	if open {
		if err := browser.OpenFile(icon.Output); err != nil {
			return fmt.Errorf("failed to open %s: %w", icon.Output, err)
		}
	}
	if !watch {
		return nil
	}
	files := watchFiles(icon, cfg)
	if len(files) == 0 {
		return fmt.Errorf("--watch needs a config file or a local font file to watch")
	}
	w, err = icongen.NewWatcher(files, logger)
	if err != nil {
		return err
	}
	return w.Run(ctx, func(ctx context.Context) error {
		_, _, err := generate(ctx)
		return err
	})
}

// watchFiles returns the files whose changes affect icon.
func watchFiles(icon *icongen.Icon, cfg *config.Config) []string {
	var files []string
	if cfg.Path() != "" {
		files = append(files, cfg.Path())
	}
	if f, ok := icongen.LocalFile(icon.Font); ok {
		files = append(files, f)
	}
	return files
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&out, "out", "o", icongen.DefaultOutput, "output file; its directory must exist")
	pf.StringVarP(&text, "text", "t", icongen.DefaultText, "text to draw")
	pf.IntVarP(&width, "width", "", icongen.DefaultWidth, "icon width in pixels")
	pf.IntVarP(&height, "height", "", icongen.DefaultHeight, "icon height in pixels")
	pf.IntVarP(&originX, "x", "", icongen.DefaultOriginX, "left edge of the text in pixels")
	pf.IntVarP(&originY, "y", "", icongen.DefaultOriginY, "top edge of the text in pixels")
	pf.StringVarP(&bg, "bg", "", icongen.DefaultBackground.String(), "background color (#rrggbb[aa] or r,g,b[,a])")
	pf.StringVarP(&fg, "fg", "", icongen.DefaultForeground.String(), "text color (#rrggbb[aa] or r,g,b[,a])")
	pf.StringVarP(&fontRef, "font", "f", icongen.FontBasic, "font: basic, goregular, gobold, gomono, a .ttf/.otf path or URL")
	pf.Float64VarP(&fontSize, "font-size", "s", icongen.DefaultFontSize, "font size in pixels (ignored by the basic font)")
	pf.StringVarP(&compression, "compression", "", string(icongen.CompressionDefault), "PNG compression: default, none, speed or best")

	rootCmd.Flags().BoolVarP(&tauriSet, "tauri-set", "", false, "also write 32x32.png, 128x128.png and 128x128@2x.png next to the output")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate when the config file or font file changes")
	rootCmd.Flags().BoolVarP(&open, "open", "", false, "open the generated icon")
}
