// Command unitinfo lists the built-in processing units and measures them.
//
// Usage:
//
//	unitinfo [flags] [unit-name ...]
//
// Without arguments it prints the parameter table of every unit.
//
// Examples:
//
//	unitinfo -list
//	unitinfo svf
//	unitinfo -set cutoff=2000,q=4,mode=1 -freqs 500,1000,2000,4000 svf
//	unitinfo -set gain=3 -thd 1000 -amp 0.8 satur
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-rtdsp/dsp/unit"
	"github.com/cwbudde/algo-rtdsp/measure/response"
	"github.com/cwbudde/algo-rtdsp/measure/thd"
)

type options struct {
	sampleRate float64
	length     int
	settings   map[string]float32
	freqs      []float64
	thdFreq    float64
	amplitude  float32
}

func main() {
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	length := flag.Int("len", 8192, "impulse response length in samples")
	set := flag.String("set", "", "comma-separated parameter settings, e.g. cutoff=1000,q=2")
	freqs := flag.String("freqs", "", "comma-separated frequencies in Hz at which to print the magnitude response")
	thdFreq := flag.Float64("thd", 0, "measure THD with a sine at this frequency in Hz")
	amp := flag.Float64("amp", 0.5, "peak amplitude of the THD test sine")
	list := flag.Bool("list", false, "list available unit names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: unitinfo [flags] [unit-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints parameter tables of processing units and optionally\n")
		fmt.Fprintf(os.Stderr, "their magnitude response and harmonic distortion.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  unitinfo -list\n")
		fmt.Fprintf(os.Stderr, "  unitinfo -set cutoff=2000,q=4,mode=1 -freqs 500,1000,2000,4000 svf\n")
		fmt.Fprintf(os.Stderr, "  unitinfo -set gain=3 -thd 1000 -amp 0.8 satur\n")
	}
	flag.Parse()

	registry := unit.DefaultRegistry()

	if *list {
		for _, name := range registry.Names() {
			fmt.Println(name)
		}
		return
	}

	settings, err := parseSettings(*set)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs, err := parseFloats(*freqs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	names := flag.Args()
	if len(names) == 0 {
		names = registry.Names()
	}

	opts := options{
		sampleRate: *rate,
		length:     *length,
		settings:   settings,
		freqs:      fs,
		thdFreq:    *thdFreq,
		amplitude:  float32(*amp),
	}

	if err := run(os.Stdout, registry, names, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, registry *unit.Registry, names []string, opts options) error {
	for i, name := range names {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		u, err := registry.New(strings.ToLower(strings.TrimSpace(name)), 1)
		if err != nil {
			return err
		}

		err = apply(u, opts.settings)
		if err != nil {
			return err
		}

		err = printParams(w, u)
		if err != nil {
			return err
		}

		if len(opts.freqs) > 0 {
			err = printResponse(w, u, opts)
			if err != nil {
				return err
			}
		}

		if opts.thdFreq > 0 {
			err = printTHD(w, u, opts)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// apply sets the named parameters the unit has. Settings for parameters
// it lacks are ignored so one -set can serve several units.
func apply(u unit.Unit, settings map[string]float32) error {
	info := u.Info()
	for name, v := range settings {
		i := info.ParamIndex(name)
		if i < 0 {
			continue
		}

		if info.Params[i].Output {
			return fmt.Errorf("%s: %s is a meter", info.Name, name)
		}

		u.SetParameter(i, v)
	}

	return nil
}

func printParams(w io.Writer, u unit.Unit) error {
	info := u.Info()

	if _, err := fmt.Fprintf(w, "%s: %s\n", info.Name, info.Description); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Param\tUnit\tMin\tMax\tDefault\tValue\tKind\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "-----\t----\t---\t---\t-------\t-----\t----\n"); err != nil {
		return err
	}

	for i, p := range info.Params {
		kind := p.Kind.String()
		if p.Output {
			kind = "meter"
		}

		if _, err := fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%g\t%s\n",
			p.Name, p.Unit, p.Min, p.Max, p.Default, u.Parameter(i), kind); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func printResponse(w io.Writer, u unit.Unit, opts options) error {
	r, err := response.Measure(u, opts.sampleRate, opts.length)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Freq [Hz]\tMagnitude\tLevel [dB]\n"); err != nil {
		return err
	}

	for _, f := range opts.freqs {
		if _, err := fmt.Fprintf(tw, "%g\t%.6f\t%.2f\n", f, r.At(f), r.DB(f)); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func printTHD(w io.Writer, u unit.Unit, opts options) error {
	res, err := thd.MeasureUnit(u, opts.amplitude, thd.Config{
		SampleRate:      opts.sampleRate,
		FundamentalFreq: opts.thdFreq,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "THD at %.1f Hz, amplitude %g: %.4f%% (%.2f dB), odd %.4f%%, even %.4f%%\n",
		res.FundamentalFreq, opts.amplitude, 100*res.THD, res.THD_dB, 100*res.OddHD, 100*res.EvenHD)

	return err
}

var errBadSetting = errors.New("settings must look like name=value")

func parseSettings(raw string) (map[string]float32, error) {
	settings := make(map[string]float32)
	for _, field := range splitList(raw) {
		name, value, ok := strings.Cut(field, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: %q", errBadSetting, field)
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", field, err)
		}

		settings[strings.TrimSpace(name)] = float32(v)
	}

	return settings, nil
}

func parseFloats(raw string) ([]float64, error) {
	var out []float64
	for _, field := range splitList(raw) {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("frequency %q: %w", field, err)
		}

		out = append(out, v)
	}

	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for field := range strings.SplitSeq(raw, ",") {
		if field = strings.TrimSpace(field); field != "" {
			out = append(out, field)
		}
	}

	return out
}
