package generate

import (
	"math/rand"
	"strings"
)

// DefaultLocale is used when a requested locale code is not recognized.
const DefaultLocale = "en-US"

// LocalePool holds the static sample data for one locale. Pools are immutable
// lookup tables; lookup by unknown code falls back to the default pool and
// never fails.
type LocalePool struct {
	Code        string
	FirstNames  []string
	LastNames   []string
	Companies   []string
	Cities      []string
	PhoneFormat string // '#' runes are replaced with random digits
}

var localePools = map[string]*LocalePool{
	"en-US": {
		Code:        "en-US",
		FirstNames:  []string{"John", "Jane", "Alex", "Maria", "Sam", "Taylor", "Jordan", "Morgan"},
		LastNames:   []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis"},
		Companies:   []string{"Acme Corp", "Globex Inc", "Initech LLC", "Stark Industries", "Wayne Enterprises"},
		Cities:      []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Seattle", "Boston"},
		PhoneFormat: "+1-555-###-####",
	},
	"de-DE": {
		Code:        "de-DE",
		FirstNames:  []string{"Hans", "Anna", "Lukas", "Lena", "Felix", "Mia", "Paul", "Emma"},
		LastNames:   []string{"Müller", "Schmidt", "Schneider", "Fischer", "Weber", "Meyer", "Wagner"},
		Companies:   []string{"Müller GmbH", "Schmidt AG", "Rheinwerk KG", "Nordstern GmbH"},
		Cities:      []string{"Berlin", "Hamburg", "München", "Köln", "Frankfurt", "Stuttgart"},
		PhoneFormat: "+49-30-########",
	},
	"fr-FR": {
		Code:        "fr-FR",
		FirstNames:  []string{"Jean", "Marie", "Pierre", "Sophie", "Luc", "Camille", "Louis", "Chloé"},
		LastNames:   []string{"Martin", "Bernard", "Dubois", "Thomas", "Robert", "Richard", "Petit"},
		Companies:   []string{"Martin SARL", "Dubois SA", "Lumière SAS", "Avenir SARL"},
		Cities:      []string{"Paris", "Marseille", "Lyon", "Toulouse", "Nice", "Nantes"},
		PhoneFormat: "+33-1-##-##-##-##",
	},
	"es-ES": {
		Code:        "es-ES",
		FirstNames:  []string{"Carlos", "María", "José", "Lucía", "Javier", "Carmen", "Miguel", "Elena"},
		LastNames:   []string{"García", "Rodríguez", "Martínez", "López", "Sánchez", "Pérez", "Gómez"},
		Companies:   []string{"García SL", "Ibérica SA", "Meseta SL", "Levante SA"},
		Cities:      []string{"Madrid", "Barcelona", "Valencia", "Sevilla", "Zaragoza", "Bilbao"},
		PhoneFormat: "+34-91-###-####",
	},
	"ja-JP": {
		Code:        "ja-JP",
		FirstNames:  []string{"Haruto", "Yui", "Sota", "Aoi", "Ren", "Hina", "Yuto", "Sakura"},
		LastNames:   []string{"Sato", "Suzuki", "Takahashi", "Tanaka", "Watanabe", "Ito", "Yamamoto"},
		Companies:   []string{"Sato Kogyo", "Sakura Denki", "Fuji Shoji", "Asahi Seisakusho"},
		Cities:      []string{"Tokyo", "Osaka", "Nagoya", "Sapporo", "Fukuoka", "Kyoto"},
		PhoneFormat: "+81-3-####-####",
	},
}

// PoolFor returns the pool for the given locale code, falling back to the
// default pool for unknown codes.
func PoolFor(code string) *LocalePool {
	if pool, ok := localePools[code]; ok {
		return pool
	}
	return localePools[DefaultLocale]
}

// Locales lists the known locale codes.
func Locales() []string {
	codes := make([]string, 0, len(localePools))
	for code := range localePools {
		codes = append(codes, code)
	}
	return codes
}

func (p *LocalePool) firstName() string { return pick(p.FirstNames) }
func (p *LocalePool) lastName() string  { return pick(p.LastNames) }
func (p *LocalePool) company() string   { return pick(p.Companies) }
func (p *LocalePool) city() string      { return pick(p.Cities) }

// fullName returns a first+last pair from the pool.
func (p *LocalePool) fullName() string {
	return p.firstName() + " " + p.lastName()
}

// email derives an address from a pool name and company, lowercased and
// stripped to ASCII-safe characters.
func (p *LocalePool) email() string {
	domain := slugify(p.company())
	if domain == "" {
		domain = "example"
	}
	return slugify(p.firstName()) + "." + slugify(p.lastName()) + "@" + domain + ".com"
}

// phone fills the pool's phone format with random digits.
func (p *LocalePool) phone() string {
	var b strings.Builder
	for _, r := range p.PhoneFormat {
		if r == '#' {
			b.WriteByte(byte('0' + rand.Intn(10)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func pick(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[rand.Intn(len(values))]
}

// slugify lowercases and keeps only ASCII letters and digits.
func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
