// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	m "github.com/mkhts/gokalman"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs()
	if err != nil {
		m.PrintE(err)
		flag.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args); err != nil {
		m.PrintE(err)
		os.Exit(1)
	}
}

// Main application processing
func runApplication(args cmdOpt) error {

	// Load and align input files
	recs, err := loadInputFiles(args)
	if err != nil {
		return fmt.Errorf("failed to load input files: %w", err)
	}
	recs = recs.Window(args.ts, args.te, args.ti)
	if recs.Len() == 0 {
		return fmt.Errorf("no records to process")
	}

	if m.DBG_ >= 1 {
		m.PrintA("--- records (%s) ---\n", args.mode.String())
		fmt.Fprintln(os.Stderr, recs)
	}

	// Filter all records
	hist, err := m.Run(recs, setRunOpt(&args, recs))
	if err != nil {
		return fmt.Errorf("failed to estimate: %w", err)
	}
	if m.DBG_ >= 4 {
		m.PrintA("--- history ---\n")
		m.PrintMat(hist.Matrix())
	}

	// Console summary
	if err := printSummary(recs, hist); err != nil {
		return err
	}

	// Chart
	if len(args.chartFn) > 0 {
		if err := m.PlotHistory(args.chartFn, hist, recs, setChartOpt(&args)); err != nil {
			return fmt.Errorf("failed to draw chart: %w", err)
		}
	}

	// Estimate file
	est, err := prepareOutput(args)
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}
	defer closeOutput(est)
	hdr := &m.EstHeader{
		Program: filepath.Base(os.Args[0]),
		Mode:    args.mode.String(),
		Inputs:  args.inputs,
	}
	return m.WriteHistory(est, hist, hdr, args.noHeader)
}

// Load input files
func loadInputFiles(args cmdOpt) (*m.Records, error) {
	switch args.mode {
	case m.BMP280:
		return m.LoadBMP280(args.inputs[0], args.dt)
	case m.ODOMETRY:
		return m.LoadOdometry(args.inputs[0], args.inputs[1], args.inputs[2], args.measVar.Get(m.CH_WHEEL, args.measVar0), args.measVar.Get(m.CH_GYRO, args.measVar0))
	case m.POSE:
		return m.LoadPose(args.inputs[0], args.inputs[1], args.inputs[2],
			args.measVar.Get(m.CH_POS_X, args.measVar0),
			args.measVar.Get(m.CH_POS_Y, args.measVar0),
			args.measVar.Get(m.CH_ANGLE, args.measVar0))
	default:
		return nil, fmt.Errorf("unknown mode %d", args.mode)
	}
}

// Print first/last records and the estimate of each channel
func printSummary(recs *m.Records, hist *m.History) error {
	first, err := recs.At(0)
	if err != nil {
		return err
	}
	last, err := recs.At(recs.Len() - 1)
	if err != nil {
		return err
	}
	chans := recs.Channels()
	units := map[string]string{}
	for _, ch := range chans {
		units[ch] = recs.Unit(ch)
	}
	m.PrintA("%d records\n", recs.Len())
	m.PrintA("%s\n...\n%s\n\n", m.FormatRecord(first, chans, units), m.FormatRecord(last, chans, units))

	sums, err := hist.Summary(recs)
	if err != nil {
		return err
	}
	for _, s := range sums {
		m.PrintA("%s\n", m.FormatSummary(s, units[s.Channel]))
	}
	return nil
}

// Prepare output file
func prepareOutput(args cmdOpt) (io.WriteCloser, error) {

	// Use stdout if no output file is specified
	if len(args.estFn) == 0 {
		return &nopCloser{os.Stdout}, nil
	}

	// Create output file
	f, err := os.Create(args.estFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// Close output file
func closeOutput(w io.WriteCloser) {
	if w != nil {
		w.Close()
	}
}

// nopCloser - WriteCloser that ignores close operations
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Structure to hold command line argument information
type cmdOpt struct {
	inputs   []string
	estFn    string
	chartFn  string
	mode     m.Mode
	noHeader bool
	dt       float64
	ts, te   float64
	ti       int
	mean     m.ChanVar
	vari     m.ChanVar
	noise    m.ChanVar
	measVar  m.ChanVar
	mean0    float64
	vari0    float64
	noise0   float64
	measVar0 float64
	policy   m.DegeneratePolicy
	noOffset bool
}

// Parse command line arguments
func parseArgs() (a cmdOpt, err error) {
	flag.Usage = func() {
		m.PrintA(`
[Usage]
	%s [Options] [-p bmp280]  bmp280_input.txt                   (BMP280 log)
	%s [Options]  -p odometry time.csv u_wheel.csv u_gyro.csv    (wheel/gyro odometry)
	%s [Options]  -p pose     time.csv r_zw_t.csv theta_bt.csv   (position/angle)

[Options]
`, filepath.Base(os.Args[0]), filepath.Base(os.Args[0]), filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Var(&a.mode, "p", "Input layout. bmp280(0), odometry(1), pose(2)")
	flag.StringVar(&a.estFn, "o", "", "Output estimate file path. If not specified, output to stdout.")
	flag.StringVar(&a.chartFn, "png", "", "Chart image path (.png, .jpg, .tif). No chart if not specified.")
	flag.BoolVar(&a.noHeader, "nh", false, "Do not output header section of estimate file.")
	flag.Float64Var(&a.dt, "dt", m.DT, "Time step [s] for BMP280 logs without time column")
	flag.Float64Var(&a.ts, "ts", math.Inf(-1), "Start time [s]. Records before it are skipped.")
	flag.Float64Var(&a.te, "te", math.Inf(1), "End time [s]. This time is also included.")
	flag.IntVar(&a.ti, "ti", 0, "Process only every n-th record. Omit or set to 0 to process all records.")
	flag.Var(&a.mean, "m", "Initial mean per channel like -m \"pressure=101000,temp=20\"")
	flag.Var(&a.vari, "v", "Initial variance per channel like -v \"pressure=1e6,temp=25\"")
	flag.Var(&a.noise, "q", "Process noise variance per channel like -q \"pressure=0.0001,temp=1e-7\"")
	flag.Var(&a.measVar, "r", "Measurement variance per channel for files without uncertainty column like -r \"wheel=0.01,gyro=0.0001\"")
	flag.Float64Var(&a.mean0, "m0", 0, "Initial mean of channels not given with -m (odometry, pose)")
	flag.Float64Var(&a.vari0, "v0", 1e6, "Initial variance of channels not given with -v (odometry, pose)")
	flag.Float64Var(&a.noise0, "q0", 0, "Process noise variance of channels not given with -q")
	flag.Float64Var(&a.measVar0, "r0", 1, "Measurement variance of channels not given with -r (odometry, pose)")
	flag.Var(&a.policy, "deg", "Policy when predicted and measurement variance are both zero. fail, adopt(gain 1)")
	flag.BoolVar(&a.noOffset, "noff", false, "Draw BMP280 values as they are instead of deviations from 101325 Pa / 23.2 C")
	var dbg int
	flag.IntVar(&dbg, "x", 0, "Debug information display. Specify level value. 0(OFF), 1(display), 2(detailed display), 3(every step), 4(history matrix)")
	flag.Parse()
	switch a.mode {
	case m.BMP280:
		if flag.NArg() != 1 {
			return a, fmt.Errorf("one input file is required for mode %s", a.mode.String())
		}
	default:
		if flag.NArg() != 3 {
			return a, fmt.Errorf("three input files are required for mode %s", a.mode.String())
		}
	}
	a.inputs = flag.Args()
	m.DBG_ = dbg
	return
}

// Filter options from the mode defaults and the command line
func setRunOpt(args *cmdOpt, recs *m.Records) *m.RunOpt {
	opt := m.NewRunOpt()
	if args.mode == m.BMP280 {
		opt = m.BMP280RunOpt()
	}
	opt.Policy = args.policy
	for _, ch := range recs.Channels() {
		base, ok := opt.Chans[ch]
		if !ok {
			base = m.NewChanOpt(args.mean0, args.vari0, args.noise0)
		}
		opt.Chans[ch] = m.NewChanOpt(
			args.mean.Get(ch, base.InitMean),
			args.vari.Get(ch, base.InitVar),
			args.noise.Get(ch, base.ProcNoise),
		)
		m.PrintD(1, "%-10s init=%g var=%g q=%g\n", ch, opt.Chans[ch].InitMean, opt.Chans[ch].InitVar, opt.Chans[ch].ProcNoise)
	}
	return opt
}

// Chart options
func setChartOpt(args *cmdOpt) *m.ChartOpt {
	opt := m.NewChartOpt()
	switch args.mode {
	case m.BMP280:
		opt.Title = "BMP280 Kalman Smoother"
		if !args.noOffset {
			opt.Offset[m.CH_PRESSURE] = m.P0
			opt.Offset[m.CH_TEMP] = m.T0
		}
	case m.ODOMETRY:
		opt.Title = "Odometry Kalman Smoother"
	case m.POSE:
		opt.Title = "Pose Kalman Smoother"
	}
	return opt
}
