package i18n

import (
	"warden/internal/app"

	"golang.org/x/text/language"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		app.KeyInfoCurrent:      "The current warden is %[1]s.",
		app.KeyErrorActive:      "There is already a warden this round.",
		app.KeyErrorTeamCT:      "Only CTs can become warden.",
		app.KeyErrorNotWarden:   "You are not the warden.",
		app.KeyErrorTargetNotCT: "%[1]s is not on the CT team.",
		app.KeyErrorRatioFull:   "The CT team is full. One guard is allowed per two prisoners.",
		app.KeySuccessBecome:    "You are now the warden.",
		app.KeySuccessUnwarden:  "You are no longer the warden.",
		app.KeyLogBecome:        "%[1]s is now the warden.",
		app.KeyLogUnwarden:      "%[1]s is no longer the warden.",
		app.KeyLogDied:          "The warden %[1]s has died.",
		app.KeyLogDisconnected:  "The warden %[1]s has disconnected.",
		app.KeyLogTeamChange:    "The warden %[1]s left the CT team.",
		app.KeyAdminRemoved:     "Admin %[1]s removed the warden.",
		app.KeyAdminSet:         "Admin %[1]s set %[2]s as warden.",
		app.KeyUsageSetWarden:   "Usage: !sw <player>",
		app.KeyIncentiveNone:    "There is no warden. CTs, type !w to take command.",
		app.KeyPermissionDenied: "You do not have permission to use this command.",
		app.KeyPlayerNotFound:   "Player '%[1]s' not found.",
	},
	language.Spanish: {
		app.KeyInfoCurrent:      "El warden actual es %[1]s.",
		app.KeyErrorActive:      "Ya hay un warden esta ronda.",
		app.KeyErrorTeamCT:      "Solo los CT pueden ser warden.",
		app.KeyErrorNotWarden:   "No eres el warden.",
		app.KeyErrorTargetNotCT: "%[1]s no está en el equipo CT.",
		app.KeyErrorRatioFull:   "El equipo CT está lleno. Se permite un guardia por cada dos prisioneros.",
		app.KeySuccessBecome:    "Ahora eres el warden.",
		app.KeySuccessUnwarden:  "Ya no eres el warden.",
		app.KeyLogBecome:        "%[1]s es ahora el warden.",
		app.KeyLogUnwarden:      "%[1]s ya no es el warden.",
		app.KeyLogDied:          "El warden %[1]s ha muerto.",
		app.KeyLogDisconnected:  "El warden %[1]s se ha desconectado.",
		app.KeyLogTeamChange:    "El warden %[1]s dejó el equipo CT.",
		app.KeyAdminRemoved:     "El admin %[1]s quitó al warden.",
		app.KeyAdminSet:         "El admin %[1]s puso a %[2]s como warden.",
		app.KeyUsageSetWarden:   "Uso: !sw <jugador>",
		app.KeyIncentiveNone:    "No hay warden. CTs, escriban !w para tomar el mando.",
		app.KeyPermissionDenied: "No tienes permiso para usar este comando.",
		app.KeyPlayerNotFound:   "Jugador '%[1]s' no encontrado.",
	},
}
