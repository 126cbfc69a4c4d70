package integration

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"

	"github.com/modelbase/modelbase/pkg/token"
)

// registerTokenSteps wires the access token step definitions. Steps here
// inspect or forge tokens directly; everything else goes through the API.
func (s *StepsContext) registerTokenSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I should receive a valid access token$`, s.iShouldReceiveAValidAccessToken)
	sc.Step(`^the token subject should be "([^"]*)"$`, s.theTokenSubjectShouldBe)
	sc.Step(`^the token role should be "([^"]*)"$`, s.theTokenRoleShouldBe)
	sc.Step(`^I use an access token signed with a different key$`, s.iUseATokenSignedWithADifferentKey)
	sc.Step(`^I use an expired access token$`, s.iUseAnExpiredAccessToken)
}

func (s *StepsContext) parseHeldToken() (jwt.MapClaims, error) {
	if s.authToken == "" {
		return nil, fmt.Errorf("no access token held")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(s.authToken, claims, func(t *jwt.Token) (interface{}, error) {
		return s.tc.TokenKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

func (s *StepsContext) iShouldReceiveAValidAccessToken() error {
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("expected status 200, got %d: %s", s.response.StatusCode, string(s.responseBody))
	}

	claims, err := s.parseHeldToken()
	if err != nil {
		return err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return fmt.Errorf("token has no subject")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fmt.Errorf("token has no expiry")
	}
	if !exp.After(time.Now()) {
		return fmt.Errorf("token is already expired")
	}

	return nil
}

func (s *StepsContext) theTokenSubjectShouldBe(expected string) error {
	claims, err := s.parseHeldToken()
	if err != nil {
		return err
	}
	if sub, _ := claims["sub"].(string); sub != expected {
		return fmt.Errorf("expected subject %q, got %q", expected, sub)
	}
	return nil
}

func (s *StepsContext) theTokenRoleShouldBe(expected string) error {
	claims, err := s.parseHeldToken()
	if err != nil {
		return err
	}
	if role, _ := claims["role"].(string); role != expected {
		return fmt.Errorf("expected role %q, got %q", expected, role)
	}
	return nil
}

func (s *StepsContext) iUseATokenSignedWithADifferentKey() error {
	otherKey := make([]byte, 32)
	for i := range otherKey {
		otherKey[i] = 0xFF
	}

	signer, err := token.NewSigner(otherKey, 0)
	if err != nil {
		return err
	}

	s.authToken, err = signer.Issue("admin", "admin")
	return err
}

func (s *StepsContext) iUseAnExpiredAccessToken() error {
	now := time.Now()
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"iat":  now.Add(-2 * time.Hour).Unix(),
		"exp":  now.Add(-1 * time.Hour).Unix(),
	})

	var err error
	s.authToken, err = expired.SignedString(s.tc.TokenKey)
	return err
}
