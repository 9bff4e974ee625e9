package verify

import (
	"strings"

	"github.com/kailas-cloud/lostfound/internal/domain/item"
)

type categoryGroup int

const (
	groupGeneric categoryGroup = iota
	groupElectronics
	groupWallet
	groupDocument
	groupBag
	groupClothes
)

var categoryGroups = map[string]categoryGroup{
	"electronics":     groupElectronics,
	"wallet":          groupWallet,
	"wallet_regular":  groupWallet,
	"credit_card":     groupWallet,
	"cash":            groupWallet,
	"card_holder":     groupWallet,
	"identity":        groupDocument,
	"id_card":         groupDocument,
	"student_card":    groupDocument,
	"driving_license": groupDocument,
	"passport":        groupDocument,
	"bags":            groupBag,
	"backpack":        groupBag,
	"handbag":         groupBag,
	"clothes":         groupClothes,
	"clothesgeneral":  groupClothes,
}

// groupOf resolves the subcategory first, then the category.
func groupOf(l *item.Lost) categoryGroup {
	for _, c := range []string{l.Attr(item.AttrSubcategory), l.Category} {
		if g, ok := categoryGroups[strings.ToLower(strings.TrimSpace(c))]; ok {
			return g
		}
	}
	return groupGeneric
}

// joinPresent joins the non-empty parts with a single space.
func joinPresent(parts ...string) string {
	present := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			present = append(present, p)
		}
	}
	return strings.Join(present, " ")
}

func firstPresent(parts ...string) string {
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			return p
		}
	}
	return ""
}

// Questionnaire builds the ownership questions for a lost report: five
// category-specific questions followed by when and where it was lost.
func Questionnaire(l *item.Lost) []Question {
	var qs []Question

	switch groupOf(l) {
	case groupElectronics:
		qs = []Question{
			{"What is the brand and model of your device?",
				joinPresent(l.Attr(item.AttrPhoneBrand), l.Attr(item.AttrPhoneModel))},
			{"What color is your device?", l.Attr(item.AttrPhoneColor)},
			{"Is there a case on your device? If yes, describe it.", l.Attr(item.AttrPhoneCase)},
			{"What was the lock screen or wallpaper on your device?", ""},
			{"Can you provide the IMEI number or any identifying marks on the device?", ""},
		}
	case groupWallet:
		qs = []Question{
			{"What brand is your wallet?", l.Attr(item.AttrItemBrand)},
			{"What color is your wallet?", l.Attr(item.AttrItemColor)},
			{"What specific cards were in your wallet? List as many as you can remember.", ""},
			{"Was there any cash in the wallet? If yes, approximately how much?", l.Attr(item.AttrHasCash)},
			{"Are there any unique features or identifying marks on your wallet?", ""},
		}
	case groupDocument:
		qs = []Question{
			{"What is your full name as it appears on the document?",
				joinPresent(l.Attr(item.AttrFirstName), l.Attr(item.AttrLastName))},
			{"What organization issued the document?",
				firstPresent(l.Attr(item.AttrIDCardIssuer), l.Attr(item.AttrUniversity))},
			{"What is the document number or ID number?", ""},
			{"When was the document issued or when does it expire?", ""},
			{"Are there any specific features on the document (photo, hologram, etc.)?", ""},
		}
	case groupBag:
		qs = []Question{
			{"What brand is your bag?", l.Attr(item.AttrBagBrand)},
			{"What color is your bag?", l.Attr(item.AttrBagColor)},
			{"What material is your bag made of?", l.Attr(item.AttrBagMaterial)},
			{"What specific items were inside your bag?", l.Attr(item.AttrBagContents)},
			{"Are there any unique features, marks, or attachments on your bag?", ""},
		}
	case groupClothes:
		qs = []Question{
			{"What type of clothing item is it?", l.Attr(item.AttrClothesType)},
			{"What size is the clothing item?", l.Attr(item.AttrClothesSize)},
			{"What color is the clothing item?", l.Attr(item.AttrClothesColor)},
			{"What brand is the clothing item?", l.Attr(item.AttrClothesBrand)},
			{"Are there any unique features, patterns, or marks on the clothing item?", ""},
		}
	default:
		qs = []Question{
			{"Please describe the item in detail, including color, size, and any identifying features.", ""},
			{"When and where did you last have this item?", ""},
			{"Are there any unique marks or personal modifications to the item?", ""},
			{"Can you describe any contents or accessories that came with the item?", ""},
			{"Is there anything else specific about this item that only the owner would know?", ""},
		}
	}

	return append(qs,
		Question{"When did you lose this item?", strings.TrimSpace(l.Date)},
		Question{"Where did you lose this item?", strings.TrimSpace(l.Location)},
	)
}

// Texts strips the expected answers, leaving what a claimant may see.
func Texts(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Text
	}
	return out
}
