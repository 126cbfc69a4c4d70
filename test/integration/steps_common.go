package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"

	"github.com/modelbase/modelbase/pkg/server/store"
	gormstore "github.com/modelbase/modelbase/pkg/server/store/gorm"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	instance     *ServerInstance // scenario-local server started by a restart step
	response     *http.Response
	responseBody []byte
	authToken    string
	apiKeys      map[string]string
	recordIDs    map[string]string // model name -> last created record id
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:        tc,
		apiKeys:   make(map[string]string),
		recordIDs: make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a Modelbase server is running$`, s.aModelbaseServerIsRunning)
	sc.Step(`^a user "([^"]*)" with role "([^"]*)" exists$`, s.aUserWithRoleExists)
	sc.Step(`^I am authenticated as "([^"]*)"$`, s.iAmAuthenticatedAs)

	// Authentication steps
	sc.Step(`^I authenticate as "([^"]*)" with the correct API key$`, s.iAuthenticateWithCorrectAPIKey)
	sc.Step(`^I authenticate as "([^"]*)" with API key "([^"]*)"$`, s.iAuthenticateWithAPIKey)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response body should be "([^"]*)"$`, s.theResponseBodyShouldBe)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)

	// Model steps
	sc.Step(`^I save the following declaration as "([^"]*)":$`, s.iSaveDeclaration)
	sc.Step(`^I publish the model "([^"]*)"$`, s.iPublishModel)
	sc.Step(`^I delete the model "([^"]*)"$`, s.iDeleteModel)
	sc.Step(`^the model "([^"]*)" should be stored$`, s.theModelShouldBeStored)
	sc.Step(`^the table "([^"]*)" should exist$`, s.theTableShouldExist)
	sc.Step(`^I request the mounted models$`, s.iRequestMountedModels)
	sc.Step(`^the mounted models should include "([^"]*)"$`, s.theMountedModelsShouldInclude)

	// Record steps
	sc.Step(`^I create a "([^"]*)" record with:$`, s.iCreateRecord)
	sc.Step(`^I list "([^"]*)" records$`, s.iListRecords)
	sc.Step(`^I fetch the created "([^"]*)" record$`, s.iFetchCreatedRecord)
	sc.Step(`^I update the created "([^"]*)" record with:$`, s.iUpdateCreatedRecord)
	sc.Step(`^I delete the created "([^"]*)" record$`, s.iDeleteCreatedRecord)
	sc.Step(`^the response should contain (\d+) records?$`, s.theResponseShouldContainRecords)
	sc.Step(`^the record field "([^"]*)" should be "([^"]*)"$`, s.theRecordFieldShouldBe)

	// Restart steps
	sc.Step(`^I restart the server$`, s.iRestartTheServer)

	// Token steps live in steps_token.go
	s.registerTokenSteps(sc)

	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if s.instance != nil {
			s.instance.Stop()
			s.instance = nil
		}
		return ctx, nil
	})
}

// serverURL returns the URL requests go to: the scenario-local instance when a
// restart step started one, the shared suite server otherwise.
func (s *StepsContext) serverURL() string {
	if s.instance != nil {
		return s.instance.ServerURL
	}
	return s.tc.ServerURL()
}

// apiRequest performs a request against the current server, carrying the
// access token when one is held.
func (s *StepsContext) apiRequest(method, path string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, s.serverURL()+path, reader)
	if err != nil {
		return err
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// Background steps

func (s *StepsContext) aModelbaseServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) aUserWithRoleExists(login, role string) error {
	users := gormstore.NewUsersStore(s.tc.DB)

	apiKey, err := users.CreateUser(login, role)
	if errors.Is(err, store.ErrUserExists) {
		// The user persists from an earlier scenario; a rotation hands this
		// scenario a key it knows.
		apiKey, err = users.RotateAPIKey(login)
	}
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", login, err)
	}

	s.apiKeys[login] = apiKey
	return nil
}

func (s *StepsContext) iAmAuthenticatedAs(login string) error {
	if err := s.iAuthenticateWithCorrectAPIKey(login); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("authentication as %s failed with status %d: %s", login, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

// Authentication steps

func (s *StepsContext) iAuthenticateWithCorrectAPIKey(login string) error {
	apiKey, ok := s.apiKeys[login]
	if !ok {
		return fmt.Errorf("no API key known for %s; declare the user first", login)
	}
	return s.iAuthenticateWithAPIKey(login, apiKey)
}

func (s *StepsContext) iAuthenticateWithAPIKey(login, apiKey string) error {
	reqURL := fmt.Sprintf("%s/authn/%s/authenticate", s.serverURL(), login)
	req, err := http.NewRequest("POST", reqURL, strings.NewReader(apiKey))
	if err != nil {
		return err
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	if err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusOK {
		s.authToken = strings.TrimSpace(string(s.responseBody))
	}

	return nil
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldBe(expected string) error {
	actual := strings.TrimSpace(string(s.responseBody))
	if actual != expected {
		return fmt.Errorf("expected body %q, got %q", expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("expected body to contain %q, got %q", expected, string(s.responseBody))
	}
	return nil
}

// Model steps

func (s *StepsContext) iSaveDeclaration(name string, declJSON *godog.DocString) error {
	return s.apiRequest("PUT", "/models/"+name, []byte(declJSON.Content))
}

func (s *StepsContext) iPublishModel(name string) error {
	return s.apiRequest("POST", "/models/"+name+"/publish", nil)
}

func (s *StepsContext) iDeleteModel(name string) error {
	return s.apiRequest("DELETE", "/models/"+name, nil)
}

func (s *StepsContext) theModelShouldBeStored(name string) error {
	var count int64
	if err := s.tc.DB.Raw(`SELECT COUNT(*) FROM model_definitions WHERE name = ?`, name).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("model %s is not stored", name)
	}
	return nil
}

func (s *StepsContext) theTableShouldExist(table string) error {
	var count int64
	if err := s.tc.DB.Raw(
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name = ?`,
		table,
	).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("table %s does not exist", table)
	}
	return nil
}

func (s *StepsContext) iRequestMountedModels() error {
	return s.apiRequest("GET", "/api", nil)
}

func (s *StepsContext) theMountedModelsShouldInclude(name string) error {
	if err := s.apiRequest("GET", "/api", nil); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("listing mounted models failed with status %d: %s", s.response.StatusCode, string(s.responseBody))
	}

	var mounted []struct {
		Name string `json:"name"`
		Path string `json:"path"`
	}
	if err := json.Unmarshal(s.responseBody, &mounted); err != nil {
		return fmt.Errorf("failed to parse mounted models: %w", err)
	}

	for _, m := range mounted {
		if m.Name == name {
			return nil
		}
	}
	return fmt.Errorf("model %s is not mounted; mounted: %v", name, mounted)
}

// Record steps

func (s *StepsContext) iCreateRecord(model string, payload *godog.DocString) error {
	if err := s.apiRequest("POST", "/api/"+model, []byte(payload.Content)); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		var record map[string]interface{}
		if err := json.Unmarshal(s.responseBody, &record); err != nil {
			return fmt.Errorf("failed to parse created record: %w", err)
		}
		if id, ok := record["id"].(string); ok {
			s.recordIDs[model] = id
		}
	}

	return nil
}

func (s *StepsContext) iListRecords(model string) error {
	return s.apiRequest("GET", "/api/"+model, nil)
}

func (s *StepsContext) iFetchCreatedRecord(model string) error {
	id, ok := s.recordIDs[model]
	if !ok {
		return fmt.Errorf("no record created for model %s", model)
	}
	return s.apiRequest("GET", "/api/"+model+"/"+id, nil)
}

func (s *StepsContext) iUpdateCreatedRecord(model string, payload *godog.DocString) error {
	id, ok := s.recordIDs[model]
	if !ok {
		return fmt.Errorf("no record created for model %s", model)
	}
	return s.apiRequest("PUT", "/api/"+model+"/"+id, []byte(payload.Content))
}

func (s *StepsContext) iDeleteCreatedRecord(model string) error {
	id, ok := s.recordIDs[model]
	if !ok {
		return fmt.Errorf("no record created for model %s", model)
	}
	return s.apiRequest("DELETE", "/api/"+model+"/"+id, nil)
}

func (s *StepsContext) theResponseShouldContainRecords(expected int) error {
	var records []map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &records); err != nil {
		return fmt.Errorf("failed to parse records: %w", err)
	}
	if len(records) != expected {
		return fmt.Errorf("expected %d records, got %d", expected, len(records))
	}
	return nil
}

func (s *StepsContext) theRecordFieldShouldBe(field, expected string) error {
	var record map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &record); err != nil {
		return fmt.Errorf("failed to parse record: %w", err)
	}

	actual, ok := record[field]
	if !ok {
		return fmt.Errorf("field %q not present in record: %s", field, string(s.responseBody))
	}
	if fmt.Sprintf("%v", actual) != expected {
		return fmt.Errorf("expected field %q to be %q, got %v", field, expected, actual)
	}
	return nil
}

// Restart steps

func (s *StepsContext) iRestartTheServer() error {
	if s.instance != nil {
		s.instance.Stop()
		s.instance = nil
	}

	instance, err := StartServer(s.tc, DefaultServerConfig())
	if err != nil {
		return fmt.Errorf("failed to restart server: %w", err)
	}

	s.instance = instance
	return nil
}
