package domain

const (
	IndiaCode = "IN"
	USACode   = "US"
)

// indiaStates follows the datameet st_nm spellings used by Indian map geometry.
var indiaStates = map[string]string{
	"AN": "Andaman and Nicobar Islands",
	"AP": "Andhra Pradesh",
	"AR": "Arunachal Pradesh",
	"AS": "Assam",
	"BR": "Bihar",
	"CH": "Chandigarh",
	"CT": "Chhattisgarh",
	"DN": "Dadra and Nagar Haveli and Daman and Diu",
	"DL": "Delhi",
	"GA": "Goa",
	"GJ": "Gujarat",
	"HR": "Haryana",
	"HP": "Himachal Pradesh",
	"JK": "Jammu and Kashmir",
	"JH": "Jharkhand",
	"KA": "Karnataka",
	"KL": "Kerala",
	"LA": "Ladakh",
	"LD": "Lakshadweep",
	"MP": "Madhya Pradesh",
	"MH": "Maharashtra",
	"MN": "Manipur",
	"ML": "Meghalaya",
	"MZ": "Mizoram",
	"NL": "Nagaland",
	"OR": "Odisha",
	"PY": "Puducherry",
	"PB": "Punjab",
	"RJ": "Rajasthan",
	"SK": "Sikkim",
	"TN": "Tamil Nadu",
	"TG": "Telangana",
	"TR": "Tripura",
	"UP": "Uttar Pradesh",
	"UT": "Uttarakhand",
	"WB": "West Bengal",
}

// indiaAliases are spellings still found in older geometry and data files.
var indiaAliases = map[string]string{
	"Andaman & Nicobar Island": "AN",
	"Orissa":                   "OR",
	"Pondicherry":              "PY",
	"Uttaranchal":              "UT",
	"NCT of Delhi":             "DL",
	"Telengana":                "TG",
	"Chhatisgarh":              "CT",
	"Dadara & Nagar Havelli":   "DN",
	"Daman & Diu":              "DN",
	"Jammu & Kashmir":          "JK",
	"Arunanchal Pradesh":       "AR",
}

var usaStates = map[string]string{
	"AL": "Alabama",
	"AK": "Alaska",
	"AZ": "Arizona",
	"AR": "Arkansas",
	"CA": "California",
	"CO": "Colorado",
	"CT": "Connecticut",
	"DE": "Delaware",
	"DC": "District of Columbia",
	"FL": "Florida",
	"GA": "Georgia",
	"HI": "Hawaii",
	"ID": "Idaho",
	"IL": "Illinois",
	"IN": "Indiana",
	"IA": "Iowa",
	"KS": "Kansas",
	"KY": "Kentucky",
	"LA": "Louisiana",
	"ME": "Maine",
	"MD": "Maryland",
	"MA": "Massachusetts",
	"MI": "Michigan",
	"MN": "Minnesota",
	"MS": "Mississippi",
	"MO": "Missouri",
	"MT": "Montana",
	"NE": "Nebraska",
	"NV": "Nevada",
	"NH": "New Hampshire",
	"NJ": "New Jersey",
	"NM": "New Mexico",
	"NY": "New York",
	"NC": "North Carolina",
	"ND": "North Dakota",
	"OH": "Ohio",
	"OK": "Oklahoma",
	"OR": "Oregon",
	"PA": "Pennsylvania",
	"RI": "Rhode Island",
	"SC": "South Carolina",
	"SD": "South Dakota",
	"TN": "Tennessee",
	"TX": "Texas",
	"UT": "Utah",
	"VT": "Vermont",
	"VA": "Virginia",
	"WA": "Washington",
	"WV": "West Virginia",
	"WI": "Wisconsin",
	"WY": "Wyoming",
}

var usaAliases = map[string]string{
	"Washington DC":    "DC",
	"Washington, D.C.": "DC",
}

// IndiaDirectory returns the state directory for India.
func IndiaDirectory() *Directory {
	return NewDirectory(IndiaCode, indiaStates).WithAliases(indiaAliases)
}

// USADirectory returns the state directory for the United States.
func USADirectory() *Directory {
	return NewDirectory(USACode, usaStates).WithAliases(usaAliases)
}
