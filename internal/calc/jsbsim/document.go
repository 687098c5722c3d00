// Package jsbsim renders a propeller spec as a JSBSim <propeller> document.
package jsbsim

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"Propmatic/internal/calc/propeller"
)

// Generator is stamped into the header comment of every document.
const Generator = "Propmatic v1.0"

// Write renders s. Inputs and derived sizing go in a leading comment; the
// simulator only reads the <propeller> element.
func Write(w io.Writer, s propeller.Spec) error {
	var b bytes.Buffer

	b.WriteString("<?xml version=\"1.0\"?>\n")
	fmt.Fprintf(&b, "<!-- Generated by %s\n\n", Generator)
	b.WriteString("     Inputs:\n")
	fmt.Fprintf(&b, "                horsepower: %s\n", num(s.Input.EnginePowerHP))
	fmt.Fprintf(&b, "                     pitch: %s\n", s.Pitch)
	fmt.Fprintf(&b, "            max engine rpm: %s\n", num(s.Input.MaxEngineRPM))
	fmt.Fprintf(&b, "        prop diameter (ft): %s\n", num(s.DiameterFt))
	b.WriteString("\n     Outputs:\n")
	fmt.Fprintf(&b, "              max prop rpm:%7.2f\n", s.MaxPropRPM)
	fmt.Fprintf(&b, "                gear ratio:%7.2f\n", s.GearRatio)
	fmt.Fprintf(&b, "                       Cp0:%7.6f\n", s.CP0)
	fmt.Fprintf(&b, "                       Ct0:%7.6f\n", s.CT0)
	fmt.Fprintf(&b, "       static thrust (lbs):%7.2f\n", s.StaticThrustLbs)
	b.WriteString("-->\n\n")

	b.WriteString("<propeller name=\"prop\">\n")
	fmt.Fprintf(&b, "  <ixx>%7.4f </ixx>\n", s.Ixx)
	fmt.Fprintf(&b, "  <diameter unit=\"IN\">%5.1f </diameter>\n", s.DiameterFt*12)
	fmt.Fprintf(&b, "  <numblades> %d </numblades>\n", s.Blades)
	fmt.Fprintf(&b, "  <gearratio>%4.2f </gearratio>\n", s.GearRatio)
	if g := s.Governor; g != nil {
		fmt.Fprintf(&b, "  <minpitch> %s </minpitch>\n", num(g.MinPitchDeg))
		fmt.Fprintf(&b, "  <maxpitch> %s </maxpitch>\n", num(g.MaxPitchDeg))
		fmt.Fprintf(&b, "  <minrpm>%7.0f </minrpm>\n", g.MinRPM)
		fmt.Fprintf(&b, "  <maxrpm>%7.0f </maxrpm>\n", g.MaxRPM)
	}
	b.WriteString("\n")
	writeTable(&b, s.Thrust)
	b.WriteString("\n")
	writeTable(&b, s.Power)
	b.WriteString("\n</propeller>\n")

	_, err := b.WriteTo(w)
	return err
}

// Render returns the document as bytes.
func Render(s propeller.Spec) ([]byte, error) {
	var b bytes.Buffer
	if err := Write(&b, s); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// writeTable emits one internal lookup table. Two-pitch tables get a column
// header row keyed by pitch angle.
func writeTable(b *bytes.Buffer, t propeller.Table) {
	fmt.Fprintf(b, "  <table name=\"%s\" type=\"internal\">\n", t.Name)
	b.WriteString("     <tableData>\n")
	pitches := t.Pitches()
	if pitches != nil {
		var hdr strings.Builder
		hdr.WriteString(strings.Repeat(" ", 16))
		for _, p := range pitches {
			fmt.Fprintf(&hdr, "%-11s", num(p))
		}
		b.WriteString(strings.TrimRight(hdr.String(), " "))
		b.WriteString("\n")
	}
	for _, r := range t.Rows() {
		fmt.Fprintf(b, "       %.1f", r.J)
		for i, v := range r.Values {
			switch {
			case pitches == nil:
				fmt.Fprintf(b, "  %5.4f", v)
			case i == 0:
				fmt.Fprintf(b, "      %5.4f", v)
			default:
				fmt.Fprintf(b, "   %5.4f", v)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("     </tableData>\n")
	b.WriteString("  </table>\n")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
