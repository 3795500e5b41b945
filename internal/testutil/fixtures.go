package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Sample OCR outputs for each supported document type.
const (
	PassportMRZLine1 = "P<NPLSHARMA<<RAM<BAHADUR<<<<<<<<<<<<<<<<<<<<"
	PassportMRZLine2 = "PA12345670NPL8501012M2803145<<<<<<<<<<<<<<06"

	PassportText = `NEPAL
PASSPORT
Type
P
Country Code
NPL
Passport No.
PA1234567
Surname
SHARMA
Given Names
RAM BAHADUR
Nationality
NEPALI
Date of Birth
01 JAN 1985
Personal No.
12345678
Sex
M
Place of Birth
KATHMANDU
Date of Issue
15 MAR 2018
Issuing Authority
MOFA, DEPARTMENT OF PASSPORTS
Date of Expiry
14 MAR 2028
` + PassportMRZLine1 + "\n" + PassportMRZLine2 + "\n"

	CitizenshipText = `Government of Nepal
Citizenship Certificate
Citizenship Certificate No.: 27-01-75-01234
Full Name: RAM BAHADUR SHARMA
Sex: Male
Date of Birth (AD): 15/08/1988
Father's Name: HARI PRASAD SHARMA
Mother's Name: SITA SHARMA
District: KATHMANDU
Permanent Address: Kathmandu Metropolitan City-10
Date of Issue: 2006-12-01
`

	CitizenshipNepaliText = `नेपाल सरकार
नागरिकता प्रमाणपत्र
नागरिकता नं: २७-०१-७५-०१२३४
नाम थर: राम बहादुर शर्मा
लिङ्ग: पुरुष
जन्म मिति: २०४५-०५-१२
बाबुको नाम थर: हरि प्रसाद शर्मा
आमाको नाम थर: सीता शर्मा
जिल्ला: काठमाडौं
स्थायी ठेगाना: काठमाडौं महानगरपालिका-१०
जारी मिति: २०६३-०८-१५
`

	NationalIDText = `Government of Nepal
National Identity Card
NIN: 123-456-789-0
Name: SITA THAPA
Date of Birth: 1992-04-23
`

	BirthCertificateText = `Government of Nepal
Birth Certificate
Registration No: 2075/123
Name of Child: AASHA KARKI
Date of Birth: 12/01/2018
Father's Name: RAJU KARKI
`

	DrivingLicenseText = `Government of Nepal
Driving License
D.L. No: 01-06-00012345
`
)

// Sample pairs a sample text with the document type it represents.
type Sample struct {
	Name string
	Type string
	Text string
}

// Samples returns one sample per document type.
func Samples() []Sample {
	return []Sample{
		{Name: "passport", Type: "passport", Text: PassportText},
		{Name: "citizenship", Type: "citizenship", Text: CitizenshipText},
		{Name: "citizenship_ne", Type: "citizenship", Text: CitizenshipNepaliText},
		{Name: "national_id", Type: "national_id", Text: NationalIDText},
		{Name: "birth_certificate", Type: "birth_certificate", Text: BirthCertificateText},
		{Name: "driving_license", Type: "driving_license", Text: DrivingLicenseText},
	}
}

// WriteSampleFiles writes every sample as <name>.txt into dir and returns
// the paths in Samples order.
func WriteSampleFiles(t *testing.T, dir string) []string {
	t.Helper()

	require.NoError(t, EnsureDir(dir))
	paths := make([]string, 0, len(Samples()))
	for _, s := range Samples() {
		p := filepath.Join(dir, s.Name+".txt")
		require.NoError(t, os.WriteFile(p, []byte(s.Text), 0o600))
		paths = append(paths, p)
	}
	return paths
}

// WriteFile writes content to dir/name, creating dir as needed.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, EnsureDir(filepath.Dir(p)))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}
