// Package flow holds the page-object layer: each page of the signup
// journey knows its locator names and which actions to run, and leaves
// waiting, retries and failure classification to the browser layer.
package flow

import (
	"fmt"
	"time"

	"github.com/entrhq/flowcheck/pkg/browser"
	"github.com/entrhq/flowcheck/pkg/locator"
	"github.com/entrhq/flowcheck/pkg/testdata"
)

// Driver is the browser surface a page object needs. *browser.Driver
// satisfies it.
type Driver interface {
	Navigate(url string) error
	Perform(selector string, kind browser.ActionKind, payload string) browser.ActionOutcome
	WaitHidden(selector string, timeout time.Duration) error
	WaitVisible(selector string, timeout time.Duration) error
}

// SignupPage drives the account creation form.
type SignupPage struct {
	driver   Driver
	locators *locator.Repository

	// SpinnerTimeout bounds the wait for the post-submit loading
	// indicator to clear.
	SpinnerTimeout time.Duration
}

// NewSignupPage creates the signup page object.
func NewSignupPage(driver Driver, locators *locator.Repository) *SignupPage {
	return &SignupPage{
		driver:         driver,
		locators:       locators,
		SpinnerTimeout: 30 * time.Second,
	}
}

// Open navigates to the signup form and waits for it to render.
func (p *SignupPage) Open(url string) error {
	if err := p.driver.Navigate(url); err != nil {
		return fmt.Errorf("open signup page: %w", err)
	}
	form, err := p.locators.Lookup("signup", "form")
	if err != nil {
		return err
	}
	if err := p.driver.WaitVisible(form, p.SpinnerTimeout); err != nil {
		return fmt.Errorf("signup form did not render: %w", err)
	}
	return nil
}

// Fill types the profile into the form fields.
func (p *SignupPage) Fill(profile testdata.Profile) error {
	fields := []struct {
		element string
		value   string
	}{
		{"name_field", profile.FullName},
		{"email_field", profile.Email},
		{"password_field", profile.Password},
	}

	for _, f := range fields {
		selector, err := p.locators.Lookup("signup", f.element)
		if err != nil {
			return err
		}
		if out := p.driver.Perform(selector, browser.ActionType, f.value); !out.OK() {
			return fmt.Errorf("fill %s: %w", f.element, out.Err)
		}
	}
	return nil
}

// AcceptTerms checks the terms-of-service box.
func (p *SignupPage) AcceptTerms() error {
	selector, err := p.locators.Lookup("signup", "terms_checkbox")
	if err != nil {
		return err
	}
	if out := p.driver.Perform(selector, browser.ActionToggle, "true"); !out.OK() {
		return fmt.Errorf("accept terms: %w", out.Err)
	}
	return nil
}

// Submit clicks the submit button and waits for the in-flight indicator
// to clear.
func (p *SignupPage) Submit() error {
	submit, err := p.locators.Lookup("signup", "submit_button")
	if err != nil {
		return err
	}
	if out := p.driver.Perform(submit, browser.ActionClick, ""); !out.OK() {
		return fmt.Errorf("submit signup: %w", out.Err)
	}

	spinner, err := p.locators.Lookup("signup", "spinner")
	if err != nil {
		return err
	}
	if err := p.driver.WaitHidden(spinner, p.SpinnerTimeout); err != nil {
		return fmt.Errorf("signup still in flight: %w", err)
	}
	return nil
}

// ErrorBanner reads the form's validation banner, if any.
func (p *SignupPage) ErrorBanner() (string, error) {
	selector, err := p.locators.Lookup("signup", "error_banner")
	if err != nil {
		return "", err
	}
	out := p.driver.Perform(selector, browser.ActionRead, "")
	if !out.OK() {
		return "", out.Err
	}
	return out.Value, nil
}

// ConfirmationPage verifies the post-signup landing state.
type ConfirmationPage struct {
	driver   Driver
	locators *locator.Repository

	// Timeout bounds the wait for the confirmation heading.
	Timeout time.Duration
}

// NewConfirmationPage creates the confirmation page object.
func NewConfirmationPage(driver Driver, locators *locator.Repository) *ConfirmationPage {
	return &ConfirmationPage{
		driver:   driver,
		locators: locators,
		Timeout:  30 * time.Second,
	}
}

// AwaitHeading waits for the confirmation heading and returns its text.
func (p *ConfirmationPage) AwaitHeading() (string, error) {
	selector, err := p.locators.Lookup("confirmation", "heading")
	if err != nil {
		return "", err
	}
	if err := p.driver.WaitVisible(selector, p.Timeout); err != nil {
		return "", fmt.Errorf("confirmation heading never appeared: %w", err)
	}

	out := p.driver.Perform(selector, browser.ActionRead, "")
	if !out.OK() {
		return "", fmt.Errorf("read confirmation heading: %w", out.Err)
	}
	return out.Value, nil
}

// AccountEmail reads the email the confirmation page displays, so the run
// can assert the account that was created matches the submitted profile.
func (p *ConfirmationPage) AccountEmail() (string, error) {
	selector, err := p.locators.Lookup("confirmation", "account_email")
	if err != nil {
		return "", err
	}
	out := p.driver.Perform(selector, browser.ActionRead, "")
	if !out.OK() {
		return "", fmt.Errorf("read account email: %w", out.Err)
	}
	return out.Value, nil
}
