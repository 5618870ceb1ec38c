package service

import (
	"fmt"
	"math/rand/v2"
)

var (
	nicknameAdjectives = []string{"활발한", "조용한", "열정적인", "호기심많은", "친절한", "밝은", "성실한", "똑똑한"}
	nicknameAnimals    = []string{"토끼", "고양이", "강아지", "판다", "코알라", "펭귄", "다람쥐", "햄스터"}
)

// RandomNickname returns an anonymous display name like "밝은 판다42".
func RandomNickname() string {
	return fmt.Sprintf("%s %s%d",
		nicknameAdjectives[rand.IntN(len(nicknameAdjectives))],
		nicknameAnimals[rand.IntN(len(nicknameAnimals))],
		rand.IntN(99)+1)
}
