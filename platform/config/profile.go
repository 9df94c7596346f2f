package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CompanyProfile is the issuing company printed in the party block of every
// quotation unless the request overrides a field.
type CompanyProfile struct {
	Name             string `yaml:"name"`
	Phone            string `yaml:"phone"`
	Address          string `yaml:"address"`
	Representative   string `yaml:"representative"`
	Fax              string `yaml:"fax"`
	BusinessNumber   string `yaml:"businessNumber"`
	BusinessCategory string `yaml:"businessCategory"`
}

// DefaultCompanyProfile returns the built-in issuer details.
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		Name:           "(주)문 수 시 스 템",
		Phone:          "052.276.4200",
		Address:        "울산광역시 중구 운곡길 26",
		Representative: "최 영 혜",
		Fax:            "052.271.6037",
		BusinessNumber: "166-88-02397",
	}
}

// LoadCompanyProfile reads a YAML profile from path. Fields missing from the
// file keep their built-in defaults. An empty path returns the defaults.
func LoadCompanyProfile(path string) (CompanyProfile, error) {
	profile := DefaultCompanyProfile()
	if path == "" {
		return profile, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read company profile: %w", err)
	}

	var fromFile CompanyProfile
	if err := yaml.Unmarshal(raw, &fromFile); err != nil {
		return profile, fmt.Errorf("parse company profile: %w", err)
	}

	profile.Name = firstNonEmpty(fromFile.Name, profile.Name)
	profile.Phone = firstNonEmpty(fromFile.Phone, profile.Phone)
	profile.Address = firstNonEmpty(fromFile.Address, profile.Address)
	profile.Representative = firstNonEmpty(fromFile.Representative, profile.Representative)
	profile.Fax = firstNonEmpty(fromFile.Fax, profile.Fax)
	profile.BusinessNumber = firstNonEmpty(fromFile.BusinessNumber, profile.BusinessNumber)
	profile.BusinessCategory = firstNonEmpty(fromFile.BusinessCategory, profile.BusinessCategory)
	return profile, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
