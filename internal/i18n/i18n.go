// Package i18n translates error and validation codes to French (default) or
// English, and carries the request language in the context.
package i18n

import (
	"context"
	"net/http"
	"strings"
)

const (
	LangFR  = "fr"
	LangEN  = "en"
	Default = LangFR
)

var translations = map[string]map[string]string{
	LangFR: {
		"required":             "Requis",
		"must_be_positive":     "Doit être positif",
		"must_not_be_negative": "Ne doit pas être négatif",
		"out_of_range":         "Hors limites",
		"invalid_pair":         "Prix et seuil de gros vont ensemble",
		"already_exists":       "Existe déjà",
		"invalid_choice":       "Valeur non autorisée",

		"invalid_quantity":         "Quantité invalide",
		"insufficient_stock":       "Stock insuffisant",
		"index_out_of_range":       "Ligne de panier introuvable",
		"empty_cart":               "Le panier est vide",
		"discount_expired":         "Code expiré",
		"discount_minimum_not_met": "Quantité minimale non atteinte pour ce code",
		"discount_unknown":         "Code promo inconnu",
		"already_cancelled":        "Commande déjà annulée",
		"invalid_transition":       "Changement de statut impossible",
		"not_found":                "Introuvable",
		"invalid_input":            "Données invalides",
		"forbidden":                "Accès refusé",
		"unauthorized":             "Authentification requise",
		"invalid_credentials":      "Email ou mot de passe incorrect",
		"persistence_failure":      "Erreur d'enregistrement, réessayez",
		"transaction_conflict":     "Le stock a changé pendant la commande, réessayez",
		"unknown":                  "Erreur interne",
	},
	LangEN: {
		"required":             "Required",
		"must_be_positive":     "Must be positive",
		"must_not_be_negative": "Must not be negative",
		"out_of_range":         "Out of range",
		"invalid_pair":         "Bulk price and threshold go together",
		"already_exists":       "Already exists",
		"invalid_choice":       "Value not allowed",

		"invalid_quantity":         "Invalid quantity",
		"insufficient_stock":       "Insufficient stock",
		"index_out_of_range":       "Cart line not found",
		"empty_cart":               "The cart is empty",
		"discount_expired":         "Code expired",
		"discount_minimum_not_met": "Minimum quantity not met for this code",
		"discount_unknown":         "Unknown discount code",
		"already_cancelled":        "Order already cancelled",
		"invalid_transition":       "Status change not allowed",
		"not_found":                "Not found",
		"invalid_input":            "Invalid input",
		"forbidden":                "Forbidden",
		"unauthorized":             "Authentication required",
		"invalid_credentials":      "Wrong email or password",
		"persistence_failure":      "Could not save, please retry",
		"transaction_conflict":     "Stock changed during checkout, please retry",
		"unknown":                  "Internal error",
	},
}

// DetectLanguage picks "en" when the Accept-Language header starts with
// English, "fr" otherwise.
func DetectLanguage(acceptLanguage string) string {
	primary, _, _ := strings.Cut(acceptLanguage, ",")
	primary, _, _ = strings.Cut(primary, ";")
	primary = strings.ToLower(strings.TrimSpace(primary))
	if primary == LangEN || strings.HasPrefix(primary, LangEN+"-") {
		return LangEN
	}
	return Default
}

// T translates code. Unknown languages use French; unknown codes are returned
// unchanged.
func T(lang, code string) string {
	if msg, ok := translations[lang][code]; ok {
		return msg
	}
	if msg, ok := translations[Default][code]; ok {
		return msg
	}
	return code
}

// Localize translates every value of a field -> code map.
func Localize(lang string, codes map[string]string) map[string]string {
	out := make(map[string]string, len(codes))
	for field, code := range codes {
		out[field] = T(lang, code)
	}
	return out
}

type ctxKey struct{}

// WithLang stores the language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFrom returns the request language, or the default.
func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return Default
}

// Middleware resolves the language from ?lang= then Accept-Language.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := strings.ToLower(r.URL.Query().Get("lang"))
		if lang != LangFR && lang != LangEN {
			lang = DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
	})
}
