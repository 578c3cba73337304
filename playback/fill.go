package playback

// Fill renders the next block into out and advances the position. It is the
// stream callback; when looping is off and the audio ends it stops playback
// asynchronously.
func (s *Scheduler) Fill(out []float32) {
	if s.fill(out) {
		go s.stopSession(s.session.Load())
	}
}

// fill reports whether playback reached the end with looping off. A panic
// yields a silent block.
func (s *Scheduler) fill(out []float32) (ended bool) {
	defer func() {
		if r := recover(); r != nil {
			clear(out)
			ended = false
			s.log.Error("fill failed", "panic", r)
		}
	}()

	audio := s.src.ProcessedAudio()
	if len(audio) == 0 {
		clear(out)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.advanceLocked(out, audio)
}

func (s *Scheduler) advanceLocked(out, audio []float32) bool {
	n := len(out)
	total := len(audio)

	end := total
	if s.loopEnd > 0 && s.loopEnd < total {
		end = s.loopEnd
	}
	start := clampInt(s.loopStart, 0, end-1)
	loopLen := end - start
	vol := float32(s.volume)
	pos := s.position

	if s.loopEnabled && pos >= start {
		avail := max(end-pos, 0)
		if avail >= n {
			scaleCopy(out, audio[pos:pos+n], vol)
			s.position = pos + n
			return false
		}

		if avail > 0 {
			scaleCopy(out[:avail], audio[pos:end], vol)
		}

		xf := min(s.crossfadeSamples(), avail, loopLen/4)
		if avail > 0 && xf > 0 {
			crossfade(out[avail-xf:avail], audio[start:start+xf], vol)
		}

		for p := avail; p < n; {
			chunk := min(n-p, loopLen)
			scaleCopy(out[p:p+chunk], audio[start:start+chunk], vol)
			p += chunk
		}

		s.position = start + (n-avail)%loopLen
		return false
	}

	avail := max(total-pos, 0)
	if avail >= n {
		scaleCopy(out, audio[pos:pos+n], vol)
		s.position = pos + n
		return false
	}

	if avail > 0 {
		scaleCopy(out[:avail], audio[pos:], vol)
	}

	if s.loopEnabled {
		remaining := n - avail
		wrapCopy(out[avail:], audio[start:end], vol)
		s.position = start + remaining%loopLen
		return false
	}

	clear(out[avail:])
	s.position = total
	return true
}

func (s *Scheduler) crossfadeSamples() int {
	return int(s.crossfadeMs * float64(s.src.SampleRate()) / 1000)
}

func scaleCopy(dst, src []float32, vol float32) {
	for i := range dst {
		dst[i] = src[i] * vol
	}
}

// wrapCopy fills dst from loop, starting over at its beginning as often as
// needed.
func wrapCopy(dst, loop []float32, vol float32) {
	for p := 0; p < len(dst); {
		chunk := min(len(dst)-p, len(loop))
		scaleCopy(dst[p:p+chunk], loop[:chunk], vol)
		p += chunk
	}
}

// crossfade fades dst out linearly while fading in src scaled by vol.
func crossfade(dst, src []float32, vol float32) {
	n := len(dst)
	for i := range dst {
		in := float32(0)
		if n > 1 {
			in = float32(i) / float32(n-1)
		}
		dst[i] = dst[i]*(1-in) + src[i]*vol*in
	}
}
