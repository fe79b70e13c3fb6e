package amplitude_test

import (
	"fmt"

	"github.com/ColonelBlimp/ptamp/internal/amplitude"
)

func ExampleLocate() {
	samples := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 9, 8, 7, 6, 5, 4}

	pair := amplitude.Locate(13, samples)
	fmt.Printf("trough %v at %d\n", pair.Min.Value, pair.Min.Index)
	fmt.Printf("peak %v at %d\n", pair.Max.Value, pair.Max.Index)
	// Output:
	// trough 4 at 15
	// peak 10 at 9
}

func ExampleBuild() {
	v := amplitude.Build(4, 2, 4, 2)
	fmt.Printf("amplitude=%v period=%v time=%v units=%s\n",
		v.Amplitude.Value, v.Period, v.MeasurementTime, v.Amplitude.Units)
	// Output:
	// amplitude=1 period=4 time=2 units=UNITLESS
}

func ExampleCalibration_ScaleAmplitude() {
	cal, err := amplitude.NewCalibration(1, amplitude.ResponseCurve{
		Frequencies:        []float64{1, 2, 4},
		AmplitudeResponses: []float64{1, 2, 4},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cal.ScaleAmplitude(10, 0.5))
	// Output:
	// 5
}

func ExampleIsInWarning() {
	band := amplitude.WarningBand{Min: 0.5, Max: 2}
	offsets := amplitude.SelectionOffsets{StartOffsetSecs: -1, EndOffsetSecs: 4}

	fmt.Println(amplitude.IsInWarning(100, 1, 100.5, 101, band, offsets))
	fmt.Println(amplitude.IsInWarning(100, 1, 101, 100.5, band, offsets))
	// Output:
	// false
	// true
}
