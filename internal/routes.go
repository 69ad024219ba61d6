package internal

import (
	"net/http"

	"drift/internal/controllers"
	"drift/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, onboardingController *controllers.OnboardingController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/state", http.HandlerFunc(apiController.GetState))
	routers.Post("/cast", http.HandlerFunc(apiController.Cast))
	routers.Post("/draw", http.HandlerFunc(apiController.Draw))
	routers.Post("/close", http.HandlerFunc(apiController.CloseReading))
	routers.Post("/rate", http.HandlerFunc(apiController.Rate))
	routers.Post("/reply", http.HandlerFunc(apiController.Reply))
	routers.Post("/vote", http.HandlerFunc(apiController.Vote))
	routers.Get("/history", http.HandlerFunc(apiController.GetHistory))
	routers.Post("/history/{id}/open", http.HandlerFunc(apiController.OpenSent))
	routers.Post("/reset", http.HandlerFunc(apiController.Reset))

	routers.Get("/onboarding", http.HandlerFunc(onboardingController.Current))
	routers.Post("/onboarding/advance", http.HandlerFunc(onboardingController.Advance))
	routers.Post("/onboarding/identity", http.HandlerFunc(onboardingController.ShuffleIdentity))
	routers.Post("/onboarding/topics", http.HandlerFunc(onboardingController.SelectTopics))
	routers.Post("/onboarding/tide", http.HandlerFunc(onboardingController.SetTide))
	return routers
}
