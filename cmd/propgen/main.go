package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"Propmatic/internal/calc/chart"
	"Propmatic/internal/calc/jsbsim"
	"Propmatic/internal/calc/propeller"
	"Propmatic/internal/calc/report"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

type options struct {
	power         float64
	powerUnits    string
	maxRPM        float64
	pitch         string
	diameter      float64
	diameterUnits string
	format        string
	output        string
	logLevel      string
	project       string
	author        string
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:     "propgen",
		Short:   "Generate a JSBSim propeller model",
		Long:    `Generate a JSBSim propeller model from engine power, engine speed and diameter.`,
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(cmd, o)
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.Float64Var(&o.power, "power", 0, "Engine power (required)")
	f.StringVar(&o.powerUnits, "power-units", "hp", "Engine power units (hp, kw)")
	f.Float64Var(&o.maxRPM, "max-rpm", 0, "Maximum engine rpm (required)")
	f.StringVar(&o.pitch, "pitch", "fixed", "Propeller pitch (fixed, variable)")
	f.Float64Var(&o.diameter, "diameter", 0, "Propeller diameter (required)")
	f.StringVar(&o.diameterUnits, "diameter-units", "ft", "Diameter units (ft, in, m)")
	f.StringVarP(&o.format, "format", "f", "xml", "Output format (xml, json, pdf, xlsx, png)")
	f.StringVarP(&o.output, "output", "o", "-", "Output file, - for stdout")
	f.StringVar(&o.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	f.StringVar(&o.project, "project", "", "Project name printed on the PDF datasheet")
	f.StringVar(&o.author, "author", "", "Author printed on the PDF datasheet")

	for _, name := range []string{"power", "max-rpm", "diameter"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	return cmd
}

func generate(cmd *cobra.Command, o options) error {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "propgen",
		Level:  hclog.LevelFromString(o.logLevel),
		Output: cmd.ErrOrStderr(),
	})

	req, err := request(o)
	if err != nil {
		return err
	}
	spec, err := propeller.Calculate(req)
	if err != nil {
		return err
	}
	logger.Debug("computed propeller", "max_prop_rpm", spec.MaxPropRPM, "gear_ratio", spec.GearRatio, "blades", spec.Blades)

	if o.output == "-" {
		err = write(cmd.OutOrStdout(), o, spec)
	} else {
		err = writeFile(o.output, func(w io.Writer) error { return write(w, o, spec) })
	}
	if err != nil {
		return err
	}
	logger.Info("wrote propeller", "format", o.format, "output", o.output)
	return nil
}

// writeFile creates path and fills it with fill. A failure to close the file
// is reported like a failed write.
func writeFile(path string, fill func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return closeAfter(file, fill(file))
}

func closeAfter(c io.Closer, err error) error {
	cerr := c.Close()
	if err != nil {
		return err
	}
	if cerr != nil {
		return fmt.Errorf("close output: %w", cerr)
	}
	return nil
}

func request(o options) (propeller.Request, error) {
	pu, err := propeller.ParsePowerUnit(o.powerUnits)
	if err != nil {
		return propeller.Request{}, err
	}
	du, err := propeller.ParseDiameterUnit(o.diameterUnits)
	if err != nil {
		return propeller.Request{}, err
	}
	pm, err := propeller.ParsePitchMode(o.pitch)
	if err != nil {
		return propeller.Request{}, err
	}
	return propeller.Request{
		EnginePower:   o.power,
		EngineUnits:   pu,
		MaxEngineRPM:  o.maxRPM,
		PitchMode:     pm,
		Diameter:      o.diameter,
		DiameterUnits: du,
	}, nil
}

func write(out io.Writer, o options, spec propeller.Spec) error {
	switch o.format {
	case "xml":
		return jsbsim.Write(out, spec)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(spec)
	case "pdf":
		return report.WritePDF(out, report.Meta{Project: o.project, Author: o.author, Date: time.Now()}, spec)
	case "xlsx":
		return report.WriteXLSX(out, spec)
	case "png":
		img, err := chart.PNG(spec, chart.DefaultWidth, chart.DefaultHeight)
		if err != nil {
			return err
		}
		_, err = out.Write(img)
		return err
	}
	return fmt.Errorf("unknown format %q", o.format)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
