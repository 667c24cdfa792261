// Command fvmdemo builds the soma-only Hodgkin-Huxley scenario from the
// engine's end-to-end test suite (current clamp onto a single
// compartment) and renders its somatic voltage trace to a PNG, the way
// a reader would expect a driver over this core to look without any of
// the reference's schematic GUI.
package main

import (
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"fvmcell/catalogue"
	"fvmcell/cellmodel"
	"fvmcell/engine"
	"fvmcell/mechanism"
)

const (
	dt   = 0.01 // ms
	tEnd = 120.0 // ms
)

func main() {
	cat := mechanism.MapCatalogue{
		"pas":    catalogue.NewPassive(0, 0),
		"hh":     catalogue.NewHH(0, 0),
		"expsyn": catalogue.NewExpSyn(0, 0),
	}

	stim := &cellmodel.Stimulus{
		Location: cellmodel.Location{Segment: 0, Pos: 0},
		Delay:    10,
		Duration: 100,
		Amplitude: 0.1,
	}
	cell := cellmodel.NewSomaOnlyCell(9.4, 0.01, 100,
		[]cellmodel.MechanismSpec{{Name: "hh"}, {Name: "pas"}}, stim, 0)

	eng, err := engine.New([]cellmodel.Cell{cell}, cat, engine.Config{Debug: true})
	if err != nil {
		log.Fatalf("initialize: %v", err)
	}

	steps := int(tEnd / dt)
	trace := make(plotter.XYs, steps)
	for i := 0; i < steps; i++ {
		eng.Advance(dt)
		trace[i].X = eng.Time()
		trace[i].Y = eng.Voltage()[0]
		if !eng.IsPhysicalSolution() {
			log.Fatalf("non-physical solution at t=%.3f ms", eng.Time())
		}
	}

	spikes := spikeTimes(trace, 0)
	log.Printf("detected %d spikes over %.0f ms", len(spikes), tEnd)

	p := plot.New()
	p.Title.Text = "soma voltage: Hodgkin-Huxley + current clamp"
	p.X.Label.Text = "time (ms)"
	p.Y.Label.Text = "voltage (mV)"

	line, err := plotter.NewLine(trace)
	if err != nil {
		log.Fatalf("new line: %v", err)
	}
	p.Add(line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, "voltage_trace.png"); err != nil {
		log.Fatalf("save plot: %v", err)
	}
}

// spikeTimes returns the time of each upward threshold crossing in
// trace, a simple detector standing in for the out-of-scope
// spike-routing communicator.
func spikeTimes(trace plotter.XYs, threshold float64) []float64 {
	var times []float64
	above := false
	for _, pt := range trace {
		switch {
		case !above && pt.Y > threshold:
			times = append(times, pt.X)
			above = true
		case above && pt.Y < threshold:
			above = false
		}
	}
	return times
}
