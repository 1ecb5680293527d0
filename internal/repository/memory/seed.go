package memory

import (
	"context"
	"time"

	"github.com/thomhuang/happycamper/internal/model"
)

// gearOptions matches the lookup rows the schema migrations insert.
var gearOptions = model.GearOptions{
	BestUses: []model.BestUse{
		{ID: 1, Name: "Backpacking"},
		{ID: 2, Name: "Car camping"},
		{ID: 3, Name: "Mountaineering"},
	},
	FillTypes: []model.FillType{
		{Code: "D", Name: "Down"},
		{Code: "S", Name: "Synthetic"},
	},
	Genders: []model.Gender{
		{Code: "M", Name: "Men's"},
		{Code: "W", Name: "Women's"},
		{Code: "U", Name: "Unisex"},
	},
	PadTypes: []model.PadType{
		{Code: "A", Name: "Air"},
		{Code: "F", Name: "Foam"},
		{Code: "S", Name: "Self-inflating"},
	},
}

func intp(v int) *int { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Seed loads a small Bay Area inventory used by the in-memory dev mode and
// returns the ids of the users it created.
func Seed(m *Marketplace) []int64 {
	ctx := context.Background()

	tents := m.AddCategory("Tents", model.GearTent)
	bags := m.AddCategory("Sleeping Bags", model.GearSleepingBag)
	pads := m.AddCategory("Sleeping Pads", model.GearSleepingPad)

	rei, _ := m.CreateBrand(ctx, "REI")
	bigAgnes, _ := m.CreateBrand(ctx, "Big Agnes")
	marmot, _ := m.CreateBrand(ctx, "Marmot")
	thermarest, _ := m.CreateBrand(ctx, "Therm-a-Rest")

	users := []model.User{
		{Active: true, FirstName: "Trix", LastName: "Rabbit", Street: "1 Broadway", City: "Oakland", Region: "CA", PostalCode: "94612", Phone: "5105551234", Email: "trix@rabbit.com"},
		{Active: true, FirstName: "Count", LastName: "Chocula", Street: "2 Broadway", City: "Oakland", Region: "CA", PostalCode: "94612", Phone: "5105555678", Email: "count@chocula.com"},
		{Active: true, FirstName: "Franken", LastName: "Berry", Street: "1709 Broderick Street", City: "San Francisco", Region: "CA", PostalCode: "94109", Phone: "4155556666", Email: "franken@berry.com"},
		{Active: true, FirstName: "Boo", LastName: "Berry", Street: "1 Castro Street", City: "Mountain View", Region: "CA", PostalCode: "94040", Phone: "6505550000", Email: "boo@berry.com"},
		{Active: true, FirstName: "Grumpy", LastName: "Grandpa", Street: "54 Elizabeth Street #31", City: "New York", Region: "NY", PostalCode: "10013", Phone: "2125556666", Email: "grumpy@grandpa.com"},
	}
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = m.AddUser(u)
	}

	start, end := day(2015, 10, 1), day(2016, 12, 31)
	womens := "W"
	products := []model.Product{
		{
			CategoryID: tents, BrandID: rei, OwnerID: ids[0], Model: "Passage 2", Condition: "Like new", PricePerDay: 8,
			Specs: &model.Specs{Tent: &model.Tent{BestUseID: 1, SleepCapacity: 2, Seasons: 3, MinTrailWeight: 76, Doors: intp(2), Poles: intp(2)}},
		},
		{
			CategoryID: tents, BrandID: bigAgnes, OwnerID: ids[2], Model: "Sugar Shack 2", Condition: "Good. Used twice.", PricePerDay: 10,
			Specs: &model.Specs{Tent: &model.Tent{BestUseID: 2, SleepCapacity: 2, Seasons: 3, MinTrailWeight: 90, FloorWidth: intp(52), FloorLength: intp(88)}},
		},
		{
			CategoryID: bags, BrandID: marmot, OwnerID: ids[1], Model: "Trestles 30", Condition: "Used", PricePerDay: 5,
			Specs: &model.Specs{SleepingBag: &model.SleepingBag{FillCode: "S", TempRating: 30, Weight: intp(50), Length: intp(78)}},
		},
		{
			CategoryID: pads, BrandID: thermarest, OwnerID: ids[3], Model: "NeoAir XLite", Condition: "Good", PricePerDay: 4,
			Specs: &model.Specs{SleepingPad: &model.SleepingPad{PadTypeCode: "A", BestUseID: 1, RValue: 3.2, Length: 72, Weight: intp(12)}},
		},
		{
			CategoryID: bags, BrandID: rei, OwnerID: ids[4], Model: "Joule", Condition: "Good", PricePerDay: 6,
			Specs: &model.Specs{SleepingBag: &model.SleepingBag{FillCode: "D", TempRating: 21, Weight: intp(40), GenderCode: &womens}},
		},
	}
	for i := range products {
		products[i].Available = true
		products[i].AvailStart = start
		products[i].AvailEnd = end
		_ = m.CreateProduct(ctx, &products[i])
	}
	return ids
}
