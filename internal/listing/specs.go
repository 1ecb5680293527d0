package listing

import (
	"fmt"

	"github.com/thomhuang/happycamper/internal/model"
)

// tent season ratings, 2-season through 5-season
const (
	minSeasons = 2
	maxSeasons = 5
)

// checkSpecs returns what is wrong with specs for a category of the given
// kind, or "" when they fit.
func checkSpecs(kind model.GearKind, specs *model.Specs, options model.GearOptions) string {
	kinds := specs.Kinds()
	if kind == model.GearOther {
		if len(kinds) > 0 {
			return "category takes no gear specs"
		}
		return ""
	}
	if len(kinds) != 1 || kinds[0] != kind {
		return fmt.Sprintf("category needs %s specs only", kind)
	}

	switch kind {
	case model.GearTent:
		return checkTent(specs.Tent, options)
	case model.GearSleepingBag:
		return checkSleepingBag(specs.SleepingBag, options)
	case model.GearSleepingPad:
		return checkSleepingPad(specs.SleepingPad, options)
	}
	return fmt.Sprintf("unknown gear kind %q", kind)
}

func checkTent(t *model.Tent, options model.GearOptions) string {
	switch {
	case !hasBestUse(options, t.BestUseID):
		return "unknown best use"
	case t.SleepCapacity < 1:
		return "tent must sleep at least one"
	case t.Seasons < minSeasons || t.Seasons > maxSeasons:
		return fmt.Sprintf("seasons must be between %d and %d", minSeasons, maxSeasons)
	case t.MinTrailWeight <= 0:
		return "minimum trail weight is required"
	case negative(t.FloorWidth, t.FloorLength, t.Doors, t.Poles):
		return "tent sizes must not be negative"
	}
	return ""
}

func checkSleepingBag(b *model.SleepingBag, options model.GearOptions) string {
	switch {
	case !hasFillType(options, b.FillCode):
		return "unknown fill type"
	case b.GenderCode != nil && !hasGender(options, *b.GenderCode):
		return "unknown gender"
	case negative(b.Weight, b.Length):
		return "sleeping bag sizes must not be negative"
	}
	return ""
}

func checkSleepingPad(p *model.SleepingPad, options model.GearOptions) string {
	switch {
	case !hasPadType(options, p.PadTypeCode):
		return "unknown pad type"
	case !hasBestUse(options, p.BestUseID):
		return "unknown best use"
	case p.RValue < 0:
		return "r-value must not be negative"
	case p.Length <= 0:
		return "pad length is required"
	case negative(p.Weight, p.Width):
		return "sleeping pad sizes must not be negative"
	}
	return ""
}

func negative(values ...*int) bool {
	for _, v := range values {
		if v != nil && *v < 0 {
			return true
		}
	}
	return false
}

func hasBestUse(options model.GearOptions, id int64) bool {
	for _, u := range options.BestUses {
		if u.ID == id {
			return true
		}
	}
	return false
}

func hasFillType(options model.GearOptions, code string) bool {
	for _, f := range options.FillTypes {
		if f.Code == code {
			return true
		}
	}
	return false
}

func hasGender(options model.GearOptions, code string) bool {
	for _, g := range options.Genders {
		if g.Code == code {
			return true
		}
	}
	return false
}

func hasPadType(options model.GearOptions, code string) bool {
	for _, p := range options.PadTypes {
		if p.Code == code {
			return true
		}
	}
	return false
}
