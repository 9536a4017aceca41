package errs

import "fmt"

// APIStatus classifies an LLM provider HTTP response into the transient/permanent taxonomy.
// ClassifyAPIStatus is the single place that maps a status code to a Kind so
// internal/apiclient never has to decide permanent vs transient itself.
func ClassifyAPIStatus(provider string, statusCode int, body string) *ClassifiedError {
	switch statusCode {
	case 401:
		return &ClassifiedError{
			Kind:        KindAPIPermanent,
			Summary:     "authentication rejected",
			Remediation: envVarHintForProvider(provider),
			Provider:    provider,
			Err:         fmt.Errorf("http 401: %s", body),
		}
	case 402:
		return &ClassifiedError{
			Kind:        KindAPIPermanent,
			Summary:     "insufficient balance",
			Remediation: "top up the provider account before retrying",
			Provider:    provider,
			Err:         fmt.Errorf("http 402: %s", body),
		}
	case 400, 422:
		return &ClassifiedError{
			Kind:        KindAPIPermanent,
			Summary:     "request rejected by provider",
			Remediation: body,
			Provider:    provider,
			Err:         fmt.Errorf("http %d: %s", statusCode, body),
		}
	case 429:
		return &ClassifiedError{
			Kind:        KindAPITransient,
			Summary:     "rate limited",
			Remediation: "back off and retry after a short delay",
			Provider:    provider,
			Err:         fmt.Errorf("http 429: %s", body),
		}
	case 503, 504:
		return &ClassifiedError{
			Kind:        KindAPITransient,
			Summary:     "provider temporarily overloaded",
			Remediation: "retry; this is transient",
			Provider:    provider,
			Err:         fmt.Errorf("http %d: %s", statusCode, body),
		}
	case 500:
		return &ClassifiedError{
			Kind:        KindAPITransient,
			Summary:     "provider server error",
			Remediation: "retry; this is transient",
			Provider:    provider,
			Err:         fmt.Errorf("http 500: %s", body),
		}
	default:
		return &ClassifiedError{
			Kind:        KindAPITransient,
			Summary:     "unexpected provider response",
			Remediation: "retry; if this persists, check the provider status page",
			Provider:    provider,
			Err:         fmt.Errorf("http %d: %s", statusCode, body),
		}
	}
}

// APITimeout builds a transient error for a call that exceeded its
// wall-clock budget without a response.
func APITimeout(provider string, err error) *ClassifiedError {
	return &ClassifiedError{
		Kind:        KindAPITransient,
		Summary:     "no response within the call's wall-clock budget",
		Remediation: "retry; consider a smaller prompt or a larger budget",
		Provider:    provider,
		Err:         err,
	}
}

// APITransport builds a transient error for any other network/protocol
// failure (DNS, connection reset, malformed response body, ...).
func APITransport(provider string, err error) *ClassifiedError {
	return &ClassifiedError{
		Kind:        KindAPITransient,
		Summary:     "transport failure",
		Remediation: "check network connectivity and the endpoint URL",
		Provider:    provider,
		Err:         err,
	}
}

func envVarHintForProvider(provider string) string {
	switch provider {
	case "siliconflow":
		return "set the SF_KEY environment variable"
	case "deepseek":
		return "set the DS_KEY environment variable"
	default:
		return "set the credential environment variable for this provider"
	}
}
