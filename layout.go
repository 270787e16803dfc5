// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

// Built-in input layouts: BMP280 sensor log, wheel/gyro odometry and pose files.

package gokalman

import (
	"fmt"
)

// BMP280LoadOpt returns the options for a BMP280 log
//
// The file has a header with the columns pressure, p_std, temp, t_std and optionally time.
// Lines starting with '#' are comments. p_std and t_std hold variances. When there is no
// time column, the time is computed with the step dt.
func BMP280LoadOpt(dt float64) *LoadOpt {
	opt := NewLoadOpt(
		NewNamedColumnOpt(CH_PRESSURE, "Pa", "pressure", "p_std"),
		NewNamedColumnOpt(CH_TEMP, "C", "temp", "t_std"),
	)
	opt.Header = true
	opt.Comment = COMMENT
	opt.TimeField = CH_TIME
	opt.TimeStep = dt
	return opt
}

// LoadBMP280 reads a BMP280 log and aligns pressure and temperature
func LoadBMP280(fn string, dt float64) (*Records, error) {
	ts, chans, err := LoadChannels(fn, BMP280LoadOpt(dt))
	if err != nil {
		return nil, fmt.Errorf("failed to read BMP280 file: %w", err)
	}
	return Align(ts, chans...)
}

// BMP280RunOpt returns the initial guesses used for BMP280 logs
func BMP280RunOpt() *RunOpt {
	opt := NewRunOpt()
	opt.Chans[CH_PRESSURE] = NewChanOpt(101000, SQ(1000), 0) // 101000 +- 1000 Pa
	opt.Chans[CH_TEMP] = NewChanOpt(20, SQ(5), 0)            // 20 +- 5 C
	return opt
}

// Read the time file and the given bare channel files, then align them
func loadBare(timeFn string, files []string, cols [][]ColumnOpt) (*Records, error) {
	ts, err := LoadTime(timeFn)
	if err != nil {
		return nil, fmt.Errorf("failed to read time file: %w", err)
	}
	var chans []*Series
	for i, fn := range files {
		_, s, err := LoadChannels(fn, NewLoadOpt(cols[i]...))
		if err != nil {
			return nil, fmt.Errorf("failed to read channel file: %w", err)
		}
		chans = append(chans, s...)
	}
	return Align(ts, chans...)
}

// LoadOdometry reads the time, wheel speed and gyro rate files (one value per row)
// wheelVar and gyroVar are the measurement variances used for every sample.
func LoadOdometry(timeFn, wheelFn, gyroFn string, wheelVar, gyroVar float64) (*Records, error) {
	return loadBare(timeFn, []string{wheelFn, gyroFn}, [][]ColumnOpt{
		{NewColumnOpt(CH_WHEEL, "m/s", 0, wheelVar)},
		{NewColumnOpt(CH_GYRO, "rad/s", 0, gyroVar)},
	})
}

// LoadPose reads the time, position (x, y per row) and angle files
// xVar, yVar and angleVar are the measurement variances of each channel.
func LoadPose(timeFn, posFn, angleFn string, xVar, yVar, angleVar float64) (*Records, error) {
	return loadBare(timeFn, []string{posFn, angleFn}, [][]ColumnOpt{
		{NewColumnOpt(CH_POS_X, "m", 0, xVar), NewColumnOpt(CH_POS_Y, "m", 1, yVar)},
		{NewColumnOpt(CH_ANGLE, "rad", 0, angleVar)},
	})
}
