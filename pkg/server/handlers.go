package server

import (
	"net/http"

	"github.com/textveil/textveil/internal"
	"github.com/textveil/textveil/pkg/models"
	"github.com/textveil/textveil/pkg/translator"
)

var log = internal.GetLogger()

const healthMessage = "textveil anonymizer service is up"

// AnonymizeRequest is the wire shape of an anonymize call. Entity and
// operator payloads stay untyped here; the translator materializes them
// into the validated model before dispatch.
type AnonymizeRequest struct {
	Text            string                    `json:"text"`
	AnalyzerResults []map[string]any          `json:"analyzer_results"`
	Anonymizers     map[string]map[string]any `json:"anonymizers"`
}

// DeanonymizeRequest is the wire shape of a deanonymize call.
type DeanonymizeRequest struct {
	Text              string                    `json:"text"`
	AnonymizerResults []map[string]any          `json:"anonymizer_results"`
	Deanonymizers     map[string]map[string]any `json:"deanonymizers"`
}

// AnonymizeHandler translates the request payload, rejects wire-supplied
// custom operators, and dispatches to the anonymizer engine.
func AnonymizeHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnonymizeRequest
		if err := decodeJSON(r, &req); err != nil {
			renderError(w, models.NewBadRequestError("Invalid request json"))
			return
		}
		if req.Text == "" && req.AnalyzerResults == nil && req.Anonymizers == nil {
			renderError(w, models.NewBadRequestError("Invalid request json"))
			return
		}

		operators, err := translator.AnonymizerConfigs(req.Anonymizers)
		if err != nil {
			renderError(w, err)
			return
		}
		if translator.HasCustomOperator(operators) {
			renderError(w, models.NewBadRequestError("Custom type anonymizer is not supported"))
			return
		}

		entities, err := translator.Entities(req.AnalyzerResults)
		if err != nil {
			renderError(w, err)
			return
		}

		result, err := appState.Anonymizer.Anonymize(req.Text, entities, operators)
		if err != nil {
			renderError(w, err)
			return
		}

		if err := encodeJSON(w, result); err != nil {
			renderError(w, err)
			return
		}
	}
}

// DeanonymizeHandler translates the request payload and dispatches to
// the deanonymizer engine.
func DeanonymizeHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeanonymizeRequest
		if err := decodeJSON(r, &req); err != nil {
			renderError(w, models.NewBadRequestError("Invalid request json"))
			return
		}
		if req.Text == "" && req.AnonymizerResults == nil && req.Deanonymizers == nil {
			renderError(w, models.NewBadRequestError("Invalid request json"))
			return
		}

		entities, err := translator.DeanonymizeEntities(req.AnonymizerResults)
		if err != nil {
			renderError(w, err)
			return
		}

		operators, err := translator.DeanonymizerConfigs(req.Deanonymizers)
		if err != nil {
			renderError(w, err)
			return
		}

		result, err := appState.Deanonymizer.Deanonymize(req.Text, entities, operators)
		if err != nil {
			renderError(w, err)
			return
		}

		if err := encodeJSON(w, result); err != nil {
			renderError(w, err)
			return
		}
	}
}

// GetAnonymizersHandler returns the supported anonymizer kinds.
func GetAnonymizersHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if err := encodeJSON(w, appState.Anonymizer.Anonymizers()); err != nil {
			renderError(w, err)
			return
		}
	}
}

// GetDeanonymizersHandler returns the supported deanonymizer kinds.
func GetDeanonymizersHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if err := encodeJSON(w, appState.Deanonymizer.Deanonymizers()); err != nil {
			renderError(w, err)
			return
		}
	}
}

// GetHealthHandler returns a fixed availability message.
func GetHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(healthMessage)); err != nil {
		log.Errorf("error writing health response: %s", err)
	}
}
