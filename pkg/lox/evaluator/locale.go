package evaluator

import (
	"strings"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// dateLocales maps language tags, normalised to lower_snake form, to the
// month and day name tables used by formatDate.
var dateLocales = map[string]monday.Locale{
	"en":    monday.LocaleEnUS,
	"en_us": monday.LocaleEnUS,
	"en_gb": monday.LocaleEnGB,
	"de":    monday.LocaleDeDE,
	"de_de": monday.LocaleDeDE,
	"de_at": monday.LocaleDeDE,
	"de_ch": monday.LocaleDeDE,
	"fr":    monday.LocaleFrFR,
	"fr_fr": monday.LocaleFrFR,
	"fr_ca": monday.LocaleFrCA,
	"es":    monday.LocaleEsES,
	"es_es": monday.LocaleEsES,
	"it":    monday.LocaleItIT,
	"it_it": monday.LocaleItIT,
	"pt":    monday.LocalePtPT,
	"pt_pt": monday.LocalePtPT,
	"pt_br": monday.LocalePtBR,
	"nl":    monday.LocaleNlNL,
	"nl_be": monday.LocaleNlBE,
	"ru":    monday.LocaleRuRU,
	"pl":    monday.LocalePlPL,
	"sv":    monday.LocaleSvSE,
	"da":    monday.LocaleDaDK,
	"fi":    monday.LocaleFiFI,
	"ja":    monday.LocaleJaJP,
	"zh":    monday.LocaleZhCN,
	"zh_tw": monday.LocaleZhTW,
	"ko":    monday.LocaleKoKR,
	"tr":    monday.LocaleTrTR,
	"uk":    monday.LocaleUkUA,
}

// dateLocale picks the closest formatDate locale for tag: the full tag
// first, then its base language, then US English.
func dateLocale(tag language.Tag) monday.Locale {
	key := strings.ToLower(strings.ReplaceAll(tag.String(), "-", "_"))
	if l, ok := dateLocales[key]; ok {
		return l
	}
	base, _ := tag.Base()
	if l, ok := dateLocales[base.String()]; ok {
		return l
	}
	return monday.LocaleEnUS
}
