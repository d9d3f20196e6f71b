package config

import "github.com/jddeal/go-seviri/l15"

// MSG1 (321) and MSG2 (322) channel constants
var (
	f0 = map[uint16][12]float64{
		321: {65.2296, 73.0127, 62.3715, 15.4566, 0, 0, 0, 0, 0, 0, 0, 78.8952},
		322: {65.2065, 73.1869, 61.9923, 15.4566, 0, 0, 0, 0, 0, 0, 0, 79.0113},
	}
	lambdaC = map[uint16][12]float64{
		321: {0.6402, 0.8093, 1.64, 3.8951, 6.2574, 7.3417, 8.7027, 9.6680, 10.7452, 11.9096, 13.2910, 0.7082},
		322: {0.6403, 0.8082, 1.64, 3.8928, 6.2479, 7.3512, 8.7061, 9.6591, 10.7331, 11.9554, 13.3016, 0.7064},
	}
	nuC = map[uint16][12]float64{
		321: {0, 0, 0, 2567.330, 1598.103, 1362.081, 1149.069, 1034.343, 930.647, 839.660, 752.387, 0},
		322: {0, 0, 0, 2568.832, 1600.548, 1360.330, 1148.620, 1035.289, 931.700, 836.445, 751.792, 0},
	}
	alpha = map[uint16][12]float64{
		321: {0, 0, 0, 0.9956, 0.9962, 0.9991, 0.9996, 0.9999, 0.9983, 0.9988, 0.9981, 0},
		322: {0, 0, 0, 0.9954, 0.9963, 0.9991, 0.9996, 0.9999, 0.9983, 0.9988, 0.9981, 0},
	}
	beta = map[uint16][12]float64{
		321: {0, 0, 0, 3.410, 2.218, 0.478, 0.179, 0.060, 0.625, 0.397, 0.578, 0},
		322: {0, 0, 0, 3.438, 2.185, 0.470, 0.179, 0.056, 0.640, 0.408, 0.561, 0},
	}
)

func satellite(id uint16, name, longName string) Satellite {
	s := Satellite{ID: id, Name: name, LongName: longName}
	for i := 0; i < l15.NumChannels; i++ {
		s.Channels = append(s.Channels, Channel{
			ID:      i + 1,
			Name:    l15.ChannelName(i + 1),
			LambdaC: lambdaC[id][i],
			NuC:     nuC[id][i],
			F0:      f0[id][i],
			Alpha:   alpha[id][i],
			Beta:    beta[id][i],
		})
	}
	return s
}

// Defaults returns a fresh copy of the built in tables.
func Defaults() *Tables {
	return &Tables{
		Satellites: []Satellite{
			satellite(321, "msg1", "Meteosat-8"),
			satellite(322, "msg2", "Meteosat-9"),
		},
		Regions: map[string][]Region{
			"hrs": {
				{Name: "eu", Lin0: 2957, Col0: 1357, NLin: 600, NCol: 800},
				{Name: "full", Lin0: 1, Col0: 1, NLin: 3712, NCol: 3712},
			},
			"rss": {
				{Name: "eu", Lin0: 2957, Col0: 1557, NLin: 600, NCol: 800},
				{Name: "full", Lin0: 1, Col0: 1, NLin: 3712, NCol: 3712},
			},
		},
	}
}
