package backends

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/check-weather/check_weather/iface"
)

// maxDays is how many days the 5 day endpoint is trimmed to. The last day
// is often partial and may spill into a sixth calendar day.
const maxDays = 5

type owmMain struct {
	Temp     *float64 `json:"temp"`
	Humidity *int     `json:"humidity"`
}

type owmSample struct {
	Dt   int64    `json:"dt"`
	Main *owmMain `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"weather"`
	// Visibility is in meters. Forecast entries may lack it, current
	// conditions must carry it.
	Visibility *float64 `json:"visibility"`
}

type owmCurrentResponse struct {
	owmSample
	Name     string `json:"name"`
	Timezone int    `json:"timezone"`
}

type owmForecastResponse struct {
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
	List []owmSample `json:"list"`
}

type slot struct {
	time     time.Time
	temp     float64
	humidity int
	wind     float64
	vis      float64
	hasVis   bool
	desc     string
	code     iface.WeatherCode
}

func (s owmSample) slot(loc *time.Location) (slot, error) {
	switch {
	case s.Main == nil || s.Main.Temp == nil:
		return slot{}, errors.New("main.temp is missing")
	case s.Main.Humidity == nil:
		return slot{}, errors.New("main.humidity is missing")
	case s.Wind == nil || s.Wind.Speed == nil:
		return slot{}, errors.New("wind.speed is missing")
	case len(s.Weather) == 0:
		return slot{}, errors.New("weather description is missing")
	}

	ret := slot{
		time:     time.Unix(s.Dt, 0).In(loc),
		temp:     *s.Main.Temp,
		humidity: *s.Main.Humidity,
		wind:     *s.Wind.Speed,
		desc:     s.Weather[0].Description,
		code:     owmCode(s.Weather[0].ID),
	}
	if s.Visibility != nil {
		ret.vis = *s.Visibility
		ret.hasVis = true
	}
	return ret, nil
}

// ParseCurrent maps a current conditions payload to a Result labelled
// "Today".
func ParseCurrent(body []byte) (iface.Result, error) {
	var r owmCurrentResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return iface.Result{}, iface.Wrap(iface.JSONError, err, "decoding current conditions")
	}
	s, err := r.slot(time.FixedZone("", r.Timezone))
	if err != nil {
		return iface.Result{}, iface.Wrap(iface.JSONError, err, "current conditions")
	}
	if r.Name == "" {
		return iface.Result{}, iface.Errorf(iface.JSONError, "current conditions: name is missing")
	}
	if !s.hasVis {
		return iface.Result{}, iface.Errorf(iface.JSONError, "current conditions: visibility is missing")
	}
	return iface.Result{
		City:        r.Name,
		Day:         "Today",
		Date:        s.time,
		AverageTemp: s.temp,
		Description: s.desc,
		Code:        s.code,
		Humidity:    s.humidity,
		WindSpeed:   s.wind,
		Visibility:  s.vis,
	}, nil
}

// ParseDaily collapses the 3 hourly entries of a forecast payload into one
// Result per calendar day of the queried city, oldest first.
//
// Temperature, wind speed and visibility are averaged over the day,
// humidity is the rounded mean, and the description is taken from the entry
// closest to local noon.
func ParseDaily(body []byte) ([]iface.Result, error) {
	var r owmForecastResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, iface.Wrap(iface.JSONError, err, "decoding forecast")
	}
	if len(r.List) == 0 {
		return nil, iface.Errorf(iface.JSONError, "forecast contains no entries")
	}
	if r.City.Name == "" {
		return nil, iface.Errorf(iface.JSONError, "forecast: city.name is missing")
	}

	loc := time.FixedZone("", r.City.Timezone)
	slots := make([]slot, 0, len(r.List))
	for i, s := range r.List {
		sl, err := s.slot(loc)
		if err != nil {
			return nil, iface.Wrap(iface.JSONError, err, fmt.Sprintf("forecast entry %d", i))
		}
		slots = append(slots, sl)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].time.Before(slots[j].time)
	})

	var days []iface.Result
	for start := 0; start < len(slots) && len(days) < maxDays; {
		end := start + 1
		for end < len(slots) && sameDay(slots[start].time, slots[end].time) {
			end++
		}
		days = append(days, aggregate(r.City.Name, slots[start:end]))
		start = end
	}
	return days, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func middayDistance(t time.Time) time.Duration {
	d := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute - 12*time.Hour
	if d < 0 {
		return -d
	}
	return d
}

func aggregate(city string, slots []slot) iface.Result {
	var temp, wind, vis float64
	var humidity, nvis int
	noon := slots[0]
	for _, s := range slots {
		temp += s.temp
		wind += s.wind
		humidity += s.humidity
		if s.hasVis {
			vis += s.vis
			nvis++
		}
		if middayDistance(s.time) < middayDistance(noon.time) {
			noon = s
		}
	}

	n := float64(len(slots))
	y, m, d := slots[0].time.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, slots[0].time.Location())
	ret := iface.Result{
		City:        city,
		Day:         date.Format("Mon 02 Jan"),
		Date:        date,
		AverageTemp: temp / n,
		Description: noon.desc,
		Code:        noon.code,
		Humidity:    int(math.Round(float64(humidity) / n)),
		WindSpeed:   wind / n,
	}
	if nvis > 0 {
		ret.Visibility = vis / float64(nvis)
	}
	return ret
}

// owmCode groups the provider's condition ids
// (https://openweathermap.org/weather-conditions) into weather codes.
func owmCode(id int) iface.WeatherCode {
	switch {
	case id == 202, id == 211, id == 212, id == 221, id == 232:
		return iface.CodeThunderyHeavyRain
	case id >= 200 && id < 300:
		return iface.CodeThunderyShowers
	case id == 302, id == 312, id == 314:
		return iface.CodeHeavyRain
	case id >= 300 && id < 400:
		return iface.CodeLightRain
	case id == 511:
		return iface.CodeLightSleet
	case id >= 502 && id <= 504, id == 522, id == 531:
		return iface.CodeHeavyShowers
	case id >= 500 && id < 600:
		return iface.CodeLightShowers
	case id == 602:
		return iface.CodeHeavySnow
	case id == 611, id == 615, id == 616:
		return iface.CodeLightSleet
	case id == 612, id == 613:
		return iface.CodeLightSleetShowers
	case id == 620, id == 621:
		return iface.CodeLightSnowShowers
	case id == 622:
		return iface.CodeHeavySnowShowers
	case id >= 600 && id < 700:
		return iface.CodeLightSnow
	case id >= 700 && id < 800:
		return iface.CodeFog
	case id == 800:
		return iface.CodeSunny
	case id == 801:
		return iface.CodePartlyCloudy
	case id == 802:
		return iface.CodeCloudy
	case id == 803, id == 804:
		return iface.CodeVeryCloudy
	}
	return iface.CodeUnknown
}
