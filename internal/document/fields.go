package document

// Field names shared by several document types.
const (
	FieldFullName    = "full_name"
	FieldDateOfBirth = "date_of_birth"
)

// Citizenship certificate fields.
const (
	FieldCitizenshipNumber = "citizenship_number"
	FieldDistrict          = "district"
	FieldAddress           = "address"
	FieldFatherName        = "father_name"
	FieldMotherName        = "mother_name"
	FieldGender            = "gender"
	FieldDateOfIssue       = "date_of_issue"
)

// Passport fields.
const (
	FieldPassportNumber   = "passport_number"
	FieldSurname          = "surname"
	FieldGivenNames       = "given_names"
	FieldNationality      = "nationality"
	FieldDateOfExpiry     = "date_of_expiry"
	FieldSex              = "sex"
	FieldPlaceOfBirth     = "place_of_birth"
	FieldIssuingAuthority = "issuing_authority"
	FieldPersonalNumber   = "personal_number"
	FieldCountryCode      = "country_code"
)

// National ID and birth certificate fields.
const (
	FieldNIDNumber          = "nid_number"
	FieldRegistrationNumber = "registration_number"
)

var declaredFields = map[Tag][]string{
	Citizenship: {
		FieldFullName,
		FieldDateOfBirth,
		FieldCitizenshipNumber,
		FieldDistrict,
		FieldAddress,
		FieldFatherName,
		FieldMotherName,
		FieldGender,
		FieldDateOfIssue,
	},
	Passport: {
		FieldPassportNumber,
		FieldSurname,
		FieldGivenNames,
		FieldNationality,
		FieldDateOfBirth,
		FieldDateOfIssue,
		FieldDateOfExpiry,
		FieldSex,
		FieldPlaceOfBirth,
		FieldIssuingAuthority,
		FieldPersonalNumber,
		FieldCountryCode,
	},
	NationalID: {
		FieldNIDNumber,
		FieldFullName,
		FieldDateOfBirth,
	},
	BirthCertificate: {
		FieldFullName,
		FieldDateOfBirth,
		FieldRegistrationNumber,
	},
	DrivingLicense: {},
	PAN:            {},
}

// Fields returns the declared field names for tag. Tags without a field
// contract return an empty slice.
func Fields(tag Tag) []string {
	keys := declaredFields[tag]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}
