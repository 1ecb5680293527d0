package model

// GearKind names the category specific attributes a category's products
// carry. Categories without any use GearOther.
type GearKind string

const (
	GearOther       GearKind = ""
	GearTent        GearKind = "tent"
	GearSleepingBag GearKind = "sleeping_bag"
	GearSleepingPad GearKind = "sleeping_pad"
)

// lookup tables

type BestUse struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type FillType struct {
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

type Gender struct {
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

type PadType struct {
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// GearOptions are the choices the category specific listing fields allow.
type GearOptions struct {
	BestUses  []BestUse  `json:"best_uses"`
	FillTypes []FillType `json:"fill_types"`
	Genders   []Gender   `json:"genders"`
	PadTypes  []PadType  `json:"pad_types"`
}

// Tent weights are in ounces, floor sizes in inches.
type Tent struct {
	BestUseID      int64 `json:"best_use_id" db:"best_use_id"`
	SleepCapacity  int   `json:"sleep_capacity" db:"sleep_capacity"`
	Seasons        int   `json:"seasons" db:"seasons"`
	MinTrailWeight int   `json:"min_trail_weight" db:"min_trail_weight"`
	FloorWidth     *int  `json:"floor_width,omitempty" db:"floor_width"`
	FloorLength    *int  `json:"floor_length,omitempty" db:"floor_length"`
	Doors          *int  `json:"doors,omitempty" db:"doors"`
	Poles          *int  `json:"poles,omitempty" db:"poles"`
}

// SleepingBag temperature ratings are in °F.
type SleepingBag struct {
	FillCode   string  `json:"fill_code" db:"fill_code"`
	TempRating int     `json:"temp_rating" db:"temp_rating"`
	Weight     *int    `json:"weight,omitempty" db:"weight"`
	Length     *int    `json:"length,omitempty" db:"length"`
	GenderCode *string `json:"gender_code,omitempty" db:"gender_code"`
}

type SleepingPad struct {
	PadTypeCode string  `json:"pad_type_code" db:"pad_type_code"`
	BestUseID   int64   `json:"best_use_id" db:"best_use_id"`
	RValue      float64 `json:"r_value" db:"r_value"`
	Length      int     `json:"length" db:"length"`
	Weight      *int    `json:"weight,omitempty" db:"weight"`
	Width       *int    `json:"width,omitempty" db:"width"`
}

// Specs holds the attributes of a product's gear kind. At most one field
// is set.
type Specs struct {
	Tent        *Tent        `json:"tent,omitempty"`
	SleepingBag *SleepingBag `json:"sleeping_bag,omitempty"`
	SleepingPad *SleepingPad `json:"sleeping_pad,omitempty"`
}

// Kinds lists the gear kinds whose attributes are set.
func (s *Specs) Kinds() []GearKind {
	if s == nil {
		return nil
	}
	var kinds []GearKind
	if s.Tent != nil {
		kinds = append(kinds, GearTent)
	}
	if s.SleepingBag != nil {
		kinds = append(kinds, GearSleepingBag)
	}
	if s.SleepingPad != nil {
		kinds = append(kinds, GearSleepingPad)
	}
	return kinds
}
