package constants

// Style and room identifiers accepted by the generate endpoint. Prompt
// fragments live here so the prompt builder stays a pure lookup.
var StylePrompts = map[string]string{
	"scandinavian":  "bright scandinavian interior, light wood, soft neutral palette",
	"industrial":    "industrial loft interior, exposed brick, black steel, concrete",
	"minimalist":    "minimalist interior, clean lines, uncluttered surfaces",
	"bohemian":      "bohemian interior, layered textiles, plants, warm earthy tones",
	"mid-century":   "mid-century modern interior, teak furniture, organic curves",
	"japandi":       "japandi interior, japanese minimalism with scandinavian warmth",
	"coastal":       "coastal interior, white and blue palette, natural light, linen",
	"art-deco":      "art deco interior, geometric patterns, brass, velvet",
	"farmhouse":     "modern farmhouse interior, shiplap, rustic wood, cozy textures",
	"contemporary":  "contemporary interior, current design trends, balanced neutrals",
}

var RoomTypes = map[string]string{
	"living-room": "living room",
	"bedroom":     "bedroom",
	"kitchen":     "kitchen",
	"dining-room": "dining room",
	"bathroom":    "bathroom",
	"home-office": "home office",
	"nursery":     "nursery",
	"hallway":     "hallway",
}

const (
	TransformModeRedesign  = "redesign"
	TransformModeStaging   = "staging"
	TransformModeDeclutter = "declutter"
)

var TransformModes = map[string]bool{
	TransformModeRedesign:  true,
	TransformModeStaging:   true,
	TransformModeDeclutter: true,
}

// CreditPackage maps a purchasable bundle to the payment gateway price
// reference carried in the checkout session.
type CreditPackage struct {
	Slug     string
	Credits  int64
	PriceRef string
}

var CreditPackages = map[string]CreditPackage{
	"starter": {Slug: "starter", Credits: 10, PriceRef: "price_starter_10"},
	"decor":   {Slug: "decor", Credits: 50, PriceRef: "price_decor_50"},
	"studio":  {Slug: "studio", Credits: 200, PriceRef: "price_studio_200"},
}

const HDUnlockPriceRef = "price_hd_unlock"

const GenerationCost = 1

// SignupBonusCredits is granted once when an account row is first created.
const SignupBonusCredits = 3
