// ABOUTME: The `fontship fonts` subcommand: lists, inspects and exports the bundled fonts.
// ABOUTME: -inspect parses every face; -export writes fonts and license texts to a directory.
package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/2389-research/fontship/fonts"
)

type fontsConfig struct {
	inspect   bool
	exportDir string
	glyphs    string
}

func parseFontsArgs(args []string, stderr io.Writer) (fontsConfig, error) {
	var cfg fontsConfig
	fs := newFlagSet("fonts", "fonts [-inspect] [-glyphs text] [-export dir]", stderr)
	fs.BoolVar(&cfg.inspect, "inspect", false, "Parse each font and show names and glyph counts")
	fs.StringVar(&cfg.glyphs, "glyphs", "", "Report characters of this text missing from each font")
	fs.StringVar(&cfg.exportDir, "export", "", "Write fonts/ and licenses/ to this directory")
	return cfg, parse(fs, args)
}

func runFonts(cfg fontsConfig, stdout, stderr io.Writer) int {
	if cfg.exportDir != "" {
		written, err := fonts.Export(cfg.exportDir)
		if err != nil {
			fmt.Fprintf(stderr, "%s %v\n", errorLabel.Render("error:"), err)
			return exitFailure
		}
		for _, p := range written {
			fmt.Fprintln(stdout, p)
		}
		fmt.Fprintf(stderr, "%s %d files to %s\n", okLabel.Render("exported"), len(written), cfg.exportDir)
		return exitOK
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	if !cfg.inspect && cfg.glyphs == "" {
		fmt.Fprintln(tw, "NAME\tFILE\tFAMILY\tLICENSE")
		for _, a := range fonts.Default() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Name, a.File, a.Family, a.License)
		}
		return exitOK
	}

	infos, err := fonts.InspectAll()
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", errorLabel.Render("error:"), err)
		return exitFailure
	}

	header := "NAME\tFULL NAME\tGLYPHS\tUNITS/EM"
	if cfg.glyphs != "" {
		header += "\tMISSING"
	}
	fmt.Fprintln(tw, header)
	for _, name := range fonts.Names() {
		info := infos[name]
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d", name, info.FullName, info.NumGlyphs, info.UnitsPerEm)
		if cfg.glyphs != "" {
			data, _ := fonts.Bytes(name)
			missing, err := fonts.MissingGlyphs(data, cfg.glyphs)
			if err != nil {
				fmt.Fprintf(stderr, "%s %s: %v\n", errorLabel.Render("error:"), name, err)
				return exitFailure
			}
			fmt.Fprintf(tw, "\t%s", runeList(missing))
		}
		fmt.Fprintln(tw)
	}
	return exitOK
}

func runeList(rs []rune) string {
	if len(rs) == 0 {
		return "-"
	}
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = fmt.Sprintf("%q", r)
	}
	return strings.Join(parts, " ")
}
