// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

const (
	DT      = 0.1      // Default time step for sources without a time column [s]
	COMMENT = '#'      // Default comment marker of header-bearing sources
	DELIM   = ','      // Default field delimiter
	P0      = 101325.0 // Standard atmospheric pressure [Pa]
	T0      = 23.2     // Reference temperature of the BMP280 sample data [C]
)

// Channel names used by the built-in input layouts
const (
	CH_TIME     = "time"
	CH_PRESSURE = "pressure"
	CH_TEMP     = "temp"
	CH_WHEEL    = "wheel"
	CH_GYRO     = "gyro"
	CH_POS_X    = "x"
	CH_POS_Y    = "y"
	CH_ANGLE    = "angle"
)
