package flow

import (
	"fmt"
	"strings"

	"github.com/entrhq/flowcheck/pkg/locator"
	"github.com/entrhq/flowcheck/pkg/testdata"
)

// Result is the outcome of one end-to-end signup verification.
type Result struct {
	Profile testdata.Profile
	Heading string
	Email   string
}

// Run walks one profile through the whole signup journey: open the form,
// fill it, accept terms, submit, then verify the confirmation page names
// the account that was just created.
func Run(driver Driver, locators *locator.Repository, signupURL string, profile testdata.Profile) (Result, error) {
	result := Result{Profile: profile}

	if err := profile.Validate(); err != nil {
		return result, err
	}

	signup := NewSignupPage(driver, locators)
	if err := signup.Open(signupURL); err != nil {
		return result, err
	}
	if err := signup.Fill(profile); err != nil {
		return result, err
	}
	if err := signup.AcceptTerms(); err != nil {
		return result, err
	}
	if err := signup.Submit(); err != nil {
		return result, err
	}

	confirmation := NewConfirmationPage(driver, locators)
	heading, err := confirmation.AwaitHeading()
	if err != nil {
		return result, err
	}
	result.Heading = heading

	email, err := confirmation.AccountEmail()
	if err != nil {
		return result, err
	}
	result.Email = email

	if !strings.EqualFold(strings.TrimSpace(email), profile.Email) {
		return result, fmt.Errorf("confirmation shows account %q, submitted %q", email, profile.Email)
	}
	return result, nil
}
