package profile

import (
	"math"

	"github.com/metaflux/metaflux/internal/constants"
	"github.com/metaflux/metaflux/internal/pathway"
)

// NadDeclineFactor returns the age-related NAD+ scaling:
// 1 - max(0, (age-30) * NadDeclinePerYear).
func NadDeclineFactor(age int) float64 {
	return 1 - math.Max(0, float64(age-30)*constants.NadDeclinePerYear)
}

// OxidativeStressMultiplier returns the ROS scaling for age and sleep:
// (1 + max(0, age-40) * OxidativeStressPerYear), times 1.2 when sleep is
// short or quality is below 70.
func OxidativeStressMultiplier(u UserProfile) float64 {
	factor := 1 + math.Max(0, float64(u.Age-40))*constants.OxidativeStressPerYear
	if u.SleepHours < constants.ShortSleepHours || u.SleepQuality < 70 {
		factor *= constants.PoorSleepROSMultiplier
	}
	return factor
}

// sleepPoor reports short or low-quality sleep.
func (u UserProfile) sleepPoor() bool {
	return u.SleepHours < constants.ShortSleepHours || u.SleepQuality < 60
}

// ApplyProfile personalizes initial concentrations and enzyme Vmax from the
// user's age, sleep, and lab values. The input pathway is not mutated.
// A neutral profile (age 30, 8 h sleep, quality 100, no labs) leaves every
// metabolite and enzyme unchanged except cd38, whose 1 + age/60 Vmax scaling
// applies at every age (1.5 at age 30).
func ApplyProfile(p pathway.Pathway, u UserProfile) pathway.Pathway {
	out := p

	out = scaleMetabolite(out, "nad", NadDeclineFactor(u.Age))
	out = scaleMetabolite(out, "ros", OxidativeStressMultiplier(u))
	if u.sleepPoor() {
		out = scaleMetabolite(out, "cortisol", constants.PoorSleepCortisolMultiplier)
	}

	out = scaleEnzyme(out, "cd38", 1+float64(u.Age)/constants.CD38AgeDivisor)
	out = scaleEnzyme(out, "etc_complex1",
		math.Max(constants.ComplexIActivityFloor, 1-math.Max(0, float64(u.Age-30))*constants.ComplexIDeclinePerYear))
	if u.sleepPoor() {
		out = scaleEnzyme(out, "nampt", constants.PoorSleepNamptMultiplier)
	}
	if u.SleepQuality < 60 {
		out = scaleEnzyme(out, "cps1", constants.PoorSleepUreaMultiplier)
		out = scaleEnzyme(out, "otc", constants.PoorSleepUreaMultiplier)
	}

	for id, value := range u.LabOverrides {
		v := value
		out = out.UpdateMetabolite(id, func(m pathway.Metabolite) pathway.Metabolite {
			m.InitialConcentration = v
			return m
		})
	}

	return out
}

func scaleMetabolite(p pathway.Pathway, id string, factor float64) pathway.Pathway {
	if factor == 1.0 {
		return p
	}
	return p.UpdateMetabolite(id, func(m pathway.Metabolite) pathway.Metabolite {
		m.InitialConcentration *= factor
		return m
	})
}

func scaleEnzyme(p pathway.Pathway, id string, factor float64) pathway.Pathway {
	if factor == 1.0 {
		return p
	}
	return p.UpdateEnzyme(id, func(e pathway.Enzyme) pathway.Enzyme {
		return e.WithVmax(e.Vmax * factor)
	})
}
