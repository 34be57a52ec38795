// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import "github.com/meshint/postcraft/pkg/types"

// fallbackTemplates are ready-made Turkish posts used when no text model is
// available. Selection is deterministic: template i backs candidate i.
var fallbackTemplates = []types.PostContent{
	{
		Title: "🎮 En Yeni Mobil Oyun Deneyimi!",
		Caption: `🎮 Muhteşem bir oyun deneyimi sizi bekliyor!

Bu oyunda neler var?
✨ Etkileyici grafikler ve görsel efektler
🎯 Sürükleyici oynanış mekanikleri
🏆 Rekabetçi çok oyunculu modlar
🎨 Benzersiz sanat tasarımı

Oyunun öne çıkan özellikleri:
• Kolay öğrenilir, ustalaşması zor oynanış
• Düzenli içerik güncellemeleri
• Aktif oyuncu topluluğu
• Free-to-play model

Hemen indir ve maceraya katıl! 🚀
Arkadaşlarını etiketle ve birlikte oynayın! 👥

📲 Şimdi ücretsiz indir!`,
		Hashtags: []string{"#mobiloyun", "#oyun", "#gaming", "#mobilegaming", "#yenioyun", "#türkiyegaming", "#oyunsever", "#mobilgame", "#gametr", "#oyunönerisi", "#ücretsizoyun", "#eğlence"},
	},
	{
		Title: "🔥 Kaçırılmayacak Oyun Fırsatı!",
		Caption: `🔥 Bu oyunu mutlaka denemelisiniz!

Neden bu oyun?
🌟 Özgün hikaye ve karakterler
⚔️ Aksiyon dolu sahneler
🗺️ Geniş keşif alanları
💎 Ödüllendirici ilerleme sistemi

Oyuncular ne diyor?
"Yılın en iyi mobil oyunu!" ⭐⭐⭐⭐⭐
"Bağımlılık yapıyor!"
"Grafikler muhteşem!"

Özel özellikler:
• PvP ve PvE modları
• Klan sistemi ve takım savaşları
• Haftalık etkinlikler ve turnuvalar
• Kişiselleştirilebilir karakterler

Sen de bu eğlenceye katıl! 🎊
Yorumlarda düşüncelerini paylaş! 💬

🎮 Hemen oynamaya başla!`,
		Hashtags: []string{"#oyuntavsiyesi", "#mobiloyunlar", "#gameoftheday", "#oyunzamanı", "#türkoyun", "#gamer", "#mobilegamer", "#yenioyunlar", "#oyundünyası", "#gaming", "#oyuncu", "#mobilgaming"},
	},
	{
		Title: "⚡ Mobil Oyun Dünyasının Yeni Yıldızı!",
		Caption: `⚡ Herkesin konuştuğu oyun burada!

Oyunun büyüleyici dünyası:
🏰 Epik maceralar ve görevler
🐉 Efsanevi yaratıklar ve bosslar
⚡ Güçlü yetenekler ve büyüler
🎁 Günlük ödüller ve sürprizler

Neler yapabilirsiniz?
• Kendi kahramanınızı yaratın
• Arkadaşlarınızla guild kurun
• Dünya çapında oyuncularla yarışın
• Eşsiz itemler toplayın

Topluluk özellikleri:
👥 Canlı sohbet sistemi
🤝 Takım kurma ve işbirliği
🏅 Liderlik tabloları
🎯 Haftalık challengelar

Maceranız başlasın! 🚀
Hangi seviyeye ulaşabilirsiniz? 💪

⬇️ Ücretsiz indirin ve oynayın!`,
		Hashtags: []string{"#mobilegame", "#oyunlar", "#gamingcommunity", "#oyunaşkı", "#mobiloyunum", "#gamerlife", "#oyunbağımlısı", "#newgame", "#türkgamer", "#oyunönerisi", "#mobilegames", "#oyuntürkiye"},
	},
}

// genericHashtags back heuristic and placeholder candidates.
var genericHashtags = []string{"#mobiloyun", "#gaming", "#oyun", "#game", "#türkiye", "#yenioyun", "#mobilegaming", "#gamer", "#oyunönerisi", "#gametr", "#mobilgame", "#oyuntürkiye"}

// templateContent returns template i (mod the template count) with trending
// hashtags mixed in: up to 5 trending tags followed by up to 7 template
// tags, capped at 12.
func templateContent(i int, trending []string) types.PostContent {
	tpl := fallbackTemplates[i%len(fallbackTemplates)]
	content := types.PostContent{
		Title:    tpl.Title,
		Caption:  tpl.Caption,
		Hashtags: append([]string{}, tpl.Hashtags...),
	}

	if len(trending) > 0 {
		mix := trending
		if len(mix) > 5 {
			mix = mix[:5]
		}
		own := tpl.Hashtags
		if len(own) > 7 {
			own = own[:7]
		}
		merged := append(append([]string{}, mix...), own...)
		if len(merged) > maxHashtags {
			merged = merged[:maxHashtags]
		}
		content.Hashtags = merged
	}
	return content
}
