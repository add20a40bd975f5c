// Package auth wraps the external identity provider. The core treats it
// as an opaque source of a profile plus a login/logout signal; nothing
// else in the app talks to Cognito directly.
package auth

import (
	"context"
	"errors"
	"fmt"

	"reclaim/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sirupsen/logrus"
)

type Provider struct {
	client   *cognitoidentityprovider.Client
	clientID string
	logger   *logrus.Logger
}

func NewProvider(client *cognitoidentityprovider.Client, clientID string, logger *logrus.Logger) *Provider {
	return &Provider{
		client:   client,
		clientID: clientID,
		logger:   logger,
	}
}

// Session is the provider's answer to a successful sign-in.
type Session struct {
	Profile     types.Profile
	AccessToken string
	ExpiresIn   int32
}

// SignIn authenticates with the user-password flow and resolves the
// signed-in profile from the provider's user attributes.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: cognitotypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(p.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	}

	resp, err := p.client.InitiateAuth(ctx, input)
	if err != nil {
		return nil, classifySignInError(err)
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		return nil, fmt.Errorf("sign-in returned no access token")
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)

	profile, err := p.fetchProfile(ctx, accessToken)
	if err != nil {
		// The token is valid even when the attribute lookup fails; fall
		// back to the submitted email so the session stays usable.
		p.logger.WithError(err).Warn("failed to resolve profile attributes")
		profile = types.Profile{Email: email}
	}

	return &Session{
		Profile:     profile,
		AccessToken: accessToken,
		ExpiresIn:   resp.AuthenticationResult.ExpiresIn,
	}, nil
}

// SignOut revokes every token issued to the user.
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	_, err := p.client.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func (p *Provider) fetchProfile(ctx context.Context, accessToken string) (types.Profile, error) {
	out, err := p.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return types.Profile{}, fmt.Errorf("get user: %w", err)
	}

	profile := types.Profile{}
	for _, attr := range out.UserAttributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			profile.ID = aws.ToString(attr.Value)
		case "name":
			profile.DisplayName = aws.ToString(attr.Value)
		case "email":
			profile.Email = aws.ToString(attr.Value)
		case "picture":
			profile.PhotoURL = aws.ToString(attr.Value)
		case "phone_number":
			profile.PhoneNumber = aws.ToString(attr.Value)
		}
	}

	return profile, nil
}

// classifySignInError folds provider error codes into the small set of
// user-facing failures the login page knows how to show.
func classifySignInError(err error) error {
	if errors.Is(err, context.Canceled) {
		return types.ErrSignInCancelled
	}

	var notAuthorized *cognitotypes.NotAuthorizedException
	var userNotFound *cognitotypes.UserNotFoundException
	if errors.As(err, &notAuthorized) || errors.As(err, &userNotFound) {
		return fmt.Errorf("%w: invalid email or password", ErrSignInFailed)
	}

	var notConfirmed *cognitotypes.UserNotConfirmedException
	if errors.As(err, &notConfirmed) {
		return fmt.Errorf("%w: account is not confirmed yet", ErrSignInFailed)
	}

	var resetRequired *cognitotypes.PasswordResetRequiredException
	if errors.As(err, &resetRequired) {
		return fmt.Errorf("%w: a password reset is required", ErrSignInFailed)
	}

	return fmt.Errorf("%w: %v", ErrSignInFailed, err)
}

// ErrSignInFailed wraps every non-cancellation sign-in failure; the
// message after the colon is safe to show to the user.
var ErrSignInFailed = errors.New("sign-in failed")
